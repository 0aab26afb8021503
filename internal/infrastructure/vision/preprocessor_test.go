package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"teeth-classifier/internal/domain/entity"
)

func TestPreprocess_Shape(t *testing.T) {
	p := NewPreprocessor()
	size := entity.Size{Width: 150, Height: 150}

	for _, dims := range [][2]int{{640, 480}, {37, 211}, {150, 150}, {1, 1}} {
		tensor, err := p.Preprocess(gradientImage(dims[0], dims[1]), size)
		require.NoError(t, err)
		require.Equal(t, []int64{1, 150, 150, 3}, tensor.Shape)
		require.Len(t, tensor.Data, 150*150*3)

		for _, v := range tensor.Data {
			require.GreaterOrEqual(t, v, float32(0))
			require.LessOrEqual(t, v, float32(1))
		}
	}
}

func TestPreprocess_NonSquare(t *testing.T) {
	tensor, err := NewPreprocessor().Preprocess(gradientImage(64, 64), entity.Size{Width: 20, Height: 10})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 10, 20, 3}, tensor.Shape)
}

func TestPreprocess_Normalizes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 0, 51, 255
	}

	tensor, err := NewPreprocessor().Preprocess(img, entity.Size{Width: 4, Height: 4})
	require.NoError(t, err)
	require.InDelta(t, 1.0, tensor.Data[0], 1e-6)
	require.InDelta(t, 0.0, tensor.Data[1], 1e-6)
	require.InDelta(t, 0.2, tensor.Data[2], 1e-6)
}

func TestPreprocess_InvalidInput(t *testing.T) {
	p := NewPreprocessor()

	_, err := p.Preprocess(gradientImage(10, 10), entity.Size{Width: 0, Height: 10})
	require.Error(t, err)

	_, err = p.Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0)), entity.Size{Width: 10, Height: 10})
	require.Error(t, err)
}
