package entity

import "fmt"

// Size целевой размер изображения для модели.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Channels число цветовых каналов во входе модели (RGB).
const Channels = 3

// Tensor подготовленный вход модели в раскладке NHWC: (1, H, W, 3), значения в [0,1].
type Tensor struct {
	Shape []int64
	Data  []float32
}

// NewTensor создаёт нулевой тензор для одного изображения размера size.
func NewTensor(size Size) Tensor {
	return Tensor{
		Shape: []int64{1, int64(size.Height), int64(size.Width), Channels},
		Data:  make([]float32, size.Height*size.Width*Channels),
	}
}
