package entity

import (
	"errors"
	"fmt"
)

// ErrUnsupportedImage загруженные байты не удалось декодировать как JPEG или PNG.
var ErrUnsupportedImage = errors.New("unsupported image")

// FetchError ошибка скачивания модели.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch model from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// LoadError файл модели есть, но загрузить его не удалось.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ShapeMismatchError форма тензора не совпадает с ожидаемой моделью.
type ShapeMismatchError struct {
	Want []int64
	Got  []int64
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: model expects %v, got %v", e.Want, e.Got)
}

// Kind возвращает короткий тег ошибки для логов и сообщений пользователю.
func Kind(err error) string {
	var (
		fetchErr *FetchError
		loadErr  *LoadError
		shapeErr *ShapeMismatchError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &loadErr):
		return "load"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &shapeErr):
		return "shape"
	case errors.Is(err, ErrUnsupportedImage):
		return "image"
	default:
		return "internal"
	}
}
