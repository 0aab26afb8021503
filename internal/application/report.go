package app

import (
	"fmt"
	"strings"

	"teeth-classifier/internal/domain/entity"
)

// LabelProbability вероятность одной метки.
type LabelProbability struct {
	Label       entity.Label
	Probability float32
	Percent     string
}

// Report результат классификации, не зависящий от способа отображения.
type Report struct {
	Label         entity.Label
	Description   string
	Probabilities []LabelProbability // в порядке entity.Labels
}

// NewReport строит отчёт по выходу модели.
func NewReport(p entity.Prediction) (*Report, error) {
	label, err := p.Label()
	if err != nil {
		return nil, err
	}

	probs := make([]LabelProbability, len(entity.Labels))
	for i, l := range entity.Labels {
		probs[i] = LabelProbability{
			Label:       l,
			Probability: p.Scores[i],
			Percent:     entity.FormatPercent(p.Scores[i]),
		}
	}

	return &Report{
		Label:         label,
		Description:   label.Description(),
		Probabilities: probs,
	}, nil
}

// Text форматирует отчёт как обычный текст.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Predicted Class: %s\n\n", r.Label)
	b.WriteString("Prediction Probabilities:\n")
	for _, p := range r.Probabilities {
		fmt.Fprintf(&b, "%s: %s\n", p.Label, p.Percent)
	}
	fmt.Fprintf(&b, "\nClass Description:\n%s", r.Description)
	return b.String()
}
