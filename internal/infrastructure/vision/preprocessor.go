//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"github.com/disintegration/imaging"

	"teeth-classifier/internal/domain/entity"
)

// Preprocessor масштабирует изображение билинейно и нормализует пиксели в [0,1].
type Preprocessor struct{}

// NewPreprocessor создаёт препроцессор на базе imaging.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Preprocess приводит изображение к размеру size без сохранения пропорций.
func (p *Preprocessor) Preprocess(img image.Image, size entity.Size) (entity.Tensor, error) {
	if err := checkInput(img, size); err != nil {
		return entity.Tensor{}, err
	}

	resized := imaging.Resize(img, size.Width, size.Height, imaging.Linear)
	return fillTensor(resized, size), nil
}
