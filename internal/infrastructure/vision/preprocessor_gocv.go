//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"teeth-classifier/internal/domain/entity"
)

// Preprocessor масштабирует изображение через OpenCV и нормализует пиксели в [0,1].
type Preprocessor struct {
	Interpolation gocv.InterpolationFlags
}

// NewPreprocessor создаёт препроцессор на базе gocv с билинейной интерполяцией.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{Interpolation: gocv.InterpolationLinear}
}

// Preprocess приводит изображение к размеру size без сохранения пропорций.
func (p *Preprocessor) Preprocess(img image.Image, size entity.Size) (entity.Tensor, error) {
	if err := checkInput(img, size); err != nil {
		return entity.Tensor{}, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return entity.Tensor{}, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(size.Width, size.Height), 0, 0, p.Interpolation)

	out, err := resized.ToImage()
	if err != nil {
		return entity.Tensor{}, fmt.Errorf("mat to image: %w", err)
	}

	return fillTensor(imaging.Clone(out), size), nil
}
