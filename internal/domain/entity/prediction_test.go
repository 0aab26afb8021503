package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrediction_Label(t *testing.T) {
	p := Prediction{Scores: []float32{0.05, 0.02, 0.80, 0.03, 0.04, 0.03, 0.03}}

	label, err := p.Label()
	require.NoError(t, err)
	require.Equal(t, LabelGum, label)
	require.NoError(t, p.CheckDistribution())

	require.Equal(t, "5.00%", FormatPercent(p.Scores[0]))
	require.Equal(t, "80.00%", FormatPercent(p.Scores[2]))
}

func TestPrediction_BestTieBreak(t *testing.T) {
	p := Prediction{Scores: []float32{0.1, 0.3, 0.3, 0.3}}
	require.Equal(t, 1, p.Best())

	require.Equal(t, -1, Prediction{}.Best())
}

func TestPrediction_LabelLengthMismatch(t *testing.T) {
	_, err := Prediction{Scores: []float32{0.5, 0.5}}.Label()

	var shapeErr *ShapeMismatchError
	require.True(t, errors.As(err, &shapeErr))
	require.Equal(t, []int64{7}, shapeErr.Want)
	require.Equal(t, []int64{2}, shapeErr.Got)
}

func TestPrediction_CheckDistribution(t *testing.T) {
	require.Error(t, Prediction{Scores: []float32{0.5, 0.6}}.CheckDistribution())
	require.Error(t, Prediction{Scores: []float32{1.5, -0.5}}.CheckDistribution())
	require.NoError(t, Prediction{Scores: []float32{0.3333, 0.3333, 0.3334}}.CheckDistribution())
}
