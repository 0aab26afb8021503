package onnx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	ort "github.com/yalue/onnxruntime_go"

	"teeth-classifier/internal/domain/entity"
)

func TestMatchShape(t *testing.T) {
	require.True(t, matchShape([]int64{1, 100, 100, 3}, []int64{1, 100, 100, 3}))
	require.True(t, matchShape([]int64{-1, 100, 100, 3}, []int64{1, 100, 100, 3}))
	require.False(t, matchShape([]int64{-1, 100, 100, 3}, []int64{1, 150, 150, 3}))
	require.False(t, matchShape([]int64{1, 100, 100, 3}, []int64{100, 100, 3}))
}

func TestConcreteShape(t *testing.T) {
	size := entity.Size{Width: 120, Height: 80}

	require.Equal(t, ort.NewShape(1, 100, 100, 3), concreteShape([]int64{-1, 100, 100, 3}, size))
	require.Equal(t, ort.NewShape(1, 80, 120, 3), concreteShape([]int64{-1, -1, -1, 3}, size))
	require.Equal(t, ort.NewShape(1, 7), concreteShape([]int64{-1, 7}, entity.Size{}))
}

func TestFindInfo(t *testing.T) {
	infos := []ort.InputOutputInfo{{Name: "input_1"}, {Name: "input_2"}}

	info, err := findInfo(infos, "")
	require.NoError(t, err)
	require.Equal(t, "input_1", info.Name)

	info, err = findInfo(infos, "input_2")
	require.NoError(t, err)
	require.Equal(t, "input_2", info.Name)

	_, err = findInfo(infos, "missing")
	require.Error(t, err)

	_, err = findInfo(nil, "")
	require.Error(t, err)
}

func TestClassifier_PredictShapeMismatch(t *testing.T) {
	ctx := context.Background()
	size := entity.Size{Width: 150, Height: 150}

	static := &Classifier{
		declared: []int64{1, 100, 100, 3},
		shape:    ort.NewShape(1, 100, 100, 3),
	}
	_, err := static.Predict(ctx, entity.NewTensor(size))
	var shapeErr *entity.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, []int64{1, 100, 100, 3}, shapeErr.Want)
	require.Equal(t, []int64{1, 150, 150, 3}, shapeErr.Got)

	// динамические оси совпадают с любой формой, но размер данных обязан совпасть с выделенным тензором
	dynamic := &Classifier{
		declared: []int64{-1, -1, -1, 3},
		shape:    ort.NewShape(1, 100, 100, 3),
	}
	_, err = dynamic.Predict(ctx, entity.NewTensor(size))
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, []int64{1, 100, 100, 3}, shapeErr.Want)
	require.Equal(t, "shape", entity.Kind(err))
}

func TestClassifier_PredictAfterClose(t *testing.T) {
	size := entity.Size{Width: 100, Height: 100}
	c := &Classifier{
		declared: []int64{-1, 100, 100, 3},
		shape:    ort.NewShape(1, 100, 100, 3),
	}
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Predict(context.Background(), entity.NewTensor(size))
	require.ErrorIs(t, err, ErrClosed)
}
