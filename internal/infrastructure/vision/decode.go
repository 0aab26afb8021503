package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"

	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
)

// SupportedExtensions расширения файлов, которые принимают поверхности загрузки.
var SupportedExtensions = []string{"jpg", "jpeg", "png"}

// IsSupportedFile проверяет расширение имени файла.
func IsSupportedFile(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Decode превращает байты загрузки в изображение.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// Preview уменьшает изображение так, чтобы большая сторона не превышала maxSide, и кодирует в JPEG.
func Preview(img image.Image, maxSide uint) ([]byte, error) {
	thumb := resize.Thumbnail(maxSide, maxSide, img, resize.Bilinear)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode см. пакетную функцию Decode.
func (p *Preprocessor) Decode(data []byte) (image.Image, string, error) {
	return Decode(data)
}

var _ port.Preprocessor = (*Preprocessor)(nil)
