package entity

import (
	"fmt"
	"math"
)

// DistributionTolerance допустимое отклонение суммы вероятностей от единицы.
const DistributionTolerance = 1e-3

// Prediction сырой выход классификатора: по одному значению на метку из Labels.
type Prediction struct {
	Scores []float32
}

// Best возвращает индекс максимального значения. При равенстве побеждает меньший индекс.
func (p Prediction) Best() int {
	if len(p.Scores) == 0 {
		return -1
	}
	best := 0
	for i, v := range p.Scores[1:] {
		if v > p.Scores[best] {
			best = i + 1
		}
	}
	return best
}

// Label возвращает предсказанную метку.
func (p Prediction) Label() (Label, error) {
	if len(p.Scores) != len(Labels) {
		return "", &ShapeMismatchError{
			Want: []int64{int64(len(Labels))},
			Got:  []int64{int64(len(p.Scores))},
		}
	}
	return Labels[p.Best()], nil
}

// CheckDistribution проверяет, что значения похожи на выход softmax.
func (p Prediction) CheckDistribution() error {
	var sum float64
	for i, v := range p.Scores {
		if v < 0 || v > 1 || math.IsNaN(float64(v)) {
			return fmt.Errorf("score %d out of range: %v", i, v)
		}
		sum += float64(v)
	}
	if math.Abs(sum-1) > DistributionTolerance {
		return fmt.Errorf("scores sum to %.4f", sum)
	}
	return nil
}

// FormatPercent форматирует вероятность как процент с двумя знаками.
func FormatPercent(v float32) string {
	return fmt.Sprintf("%.2f%%", float64(v)*100)
}
