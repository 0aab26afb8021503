package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"teeth-classifier/internal/domain/entity"
)

func TestReport_Text(t *testing.T) {
	report, err := NewReport(entity.Prediction{Scores: []float32{0.05, 0.02, 0.80, 0.03, 0.04, 0.03, 0.03}})
	require.NoError(t, err)

	text := report.Text()
	require.True(t, strings.HasPrefix(text, "Predicted Class: Gum\n"))
	require.Contains(t, text, "CaS: 5.00%\nCoS: 2.00%\nGum: 80.00%\nMC: 3.00%\nOC: 4.00%\nOLP: 3.00%\nOT: 3.00%\n")
	require.Contains(t, text, entity.LabelGum.Description())
	require.NotContains(t, text, entity.LabelCaries.Description())
}

func TestNewReport_WrongLength(t *testing.T) {
	_, err := NewReport(entity.Prediction{Scores: []float32{1}})
	require.Equal(t, "shape", entity.Kind(err))
}
