package port

import (
	"image"

	"teeth-classifier/internal/domain/entity"
)

// Preprocessor превращает загруженные байты во вход модели
type Preprocessor interface {
	// Decode декодирует JPEG или PNG
	Decode(data []byte) (image.Image, string, error)

	// Preprocess масштабирует изображение до size и нормализует его
	Preprocess(img image.Image, size entity.Size) (entity.Tensor, error)
}
