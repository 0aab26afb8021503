package vision

import (
	"errors"
	"fmt"
	"image"

	"teeth-classifier/internal/domain/entity"
)

func checkInput(img image.Image, size entity.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid target size %s", size)
	}
	if img == nil || img.Bounds().Empty() {
		return errors.New("empty image")
	}
	return nil
}

// fillTensor раскладывает RGB-пиксели в NHWC и делит на 255. Альфа-канал отбрасывается.
func fillTensor(img *image.NRGBA, size entity.Size) entity.Tensor {
	t := entity.NewTensor(size)
	i := 0
	for y := 0; y < size.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < size.Width; x++ {
			px := row[x*4 : x*4+4]
			t.Data[i] = float32(px[0]) / 255
			t.Data[i+1] = float32(px[1]) / 255
			t.Data[i+2] = float32(px[2]) / 255
			i += entity.Channels
		}
	}
	return t
}
