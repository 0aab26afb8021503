package onnx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
)

// ErrClosed сессия модели уже освобождена.
var ErrClosed = errors.New("onnx classifier is closed")

// Options параметры загрузки ONNX-модели.
type Options struct {
	LibraryPath string      // путь к libonnxruntime, пусто = системный по умолчанию
	InputName   string      // имя входа, пусто = первый вход модели
	OutputName  string      // имя выхода, пусто = первый выход модели
	ImageSize   entity.Size // размер для динамических осей H и W
}

// Loader инициализирует окружение ONNX Runtime и создаёт сессии.
type Loader struct {
	opts     Options
	initOnce sync.Once
	initErr  error
	ready    bool
}

// NewLoader создаёт загрузчик моделей.
func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts}
}

func (l *Loader) init() error {
	l.initOnce.Do(func() {
		if l.opts.LibraryPath != "" {
			ort.SetSharedLibraryPath(l.opts.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			l.initErr = fmt.Errorf("failed to initialize ONNX environment: %w", err)
			return
		}
		l.ready = true
	})
	return l.initErr
}

// Load читает описание входов и выходов модели и создаёт сессию с заранее выделенными тензорами.
func (l *Loader) Load(path string) (port.Classifier, error) {
	if err := l.init(); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model info: %w", err)
	}

	in, err := findInfo(inputs, l.opts.InputName)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	out, err := findInfo(outputs, l.opts.OutputName)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	declared := []int64(in.Dimensions)
	if len(declared) != 4 || declared[3] != entity.Channels {
		return nil, fmt.Errorf("unexpected input shape %v, want (N, H, W, 3)", declared)
	}
	inputShape := concreteShape(declared, l.opts.ImageSize)

	outputShape := concreteShape(out.Dimensions, entity.Size{})
	if outputShape.FlattenedSize() != int64(len(entity.Labels)) {
		return nil, &entity.ShapeMismatchError{
			Want: []int64{1, int64(len(entity.Labels))},
			Got:  outputShape,
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{in.Name}, []string{out.Name},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	slog.Info("onnx model loaded",
		"path", path,
		"input", in.Name,
		"input_shape", declared,
		"output", out.Name,
		"output_shape", []int64(out.Dimensions))

	return &Classifier{
		session:  session,
		input:    inputTensor,
		output:   outputTensor,
		declared: declared,
		shape:    inputShape,
	}, nil
}

// Close освобождает окружение ONNX Runtime.
func (l *Loader) Close() error {
	if !l.ready {
		return nil
	}
	return ort.DestroyEnvironment()
}

// Classifier загруженная модель. Тензоры общие, поэтому Predict сериализован.
type Classifier struct {
	mu       sync.Mutex
	session  *ort.AdvancedSession
	input    *ort.Tensor[float32]
	output   *ort.Tensor[float32]
	declared []int64
	shape    ort.Shape
	closed   bool
}

// Predict копирует тензор во вход сессии и выполняет один прямой проход.
func (c *Classifier) Predict(ctx context.Context, t entity.Tensor) (entity.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return entity.Prediction{}, err
	}
	if !matchShape(c.declared, t.Shape) || int64(len(t.Data)) != c.shape.FlattenedSize() {
		return entity.Prediction{}, &entity.ShapeMismatchError{Want: c.shape, Got: t.Shape}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return entity.Prediction{}, ErrClosed
	}

	copy(c.input.GetData(), t.Data)
	if err := c.session.Run(); err != nil {
		return entity.Prediction{}, fmt.Errorf("inference failed: %w", err)
	}

	scores := make([]float32, len(c.output.GetData()))
	copy(scores, c.output.GetData())

	return entity.Prediction{Scores: scores}, nil
}

// InputSize размер изображения, который ожидает модель.
func (c *Classifier) InputSize() entity.Size {
	return entity.Size{Width: int(c.shape[2]), Height: int(c.shape[1])}
}

// Close освобождает сессию и тензоры. Дожидается текущего Predict.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var destroys []func() error
	if c.session != nil {
		destroys = append(destroys, c.session.Destroy)
	}
	if c.input != nil {
		destroys = append(destroys, c.input.Destroy)
	}
	if c.output != nil {
		destroys = append(destroys, c.output.Destroy)
	}

	var firstErr error
	for _, destroy := range destroys {
		if err := destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func findInfo(infos []ort.InputOutputInfo, name string) (ort.InputOutputInfo, error) {
	if len(infos) == 0 {
		return ort.InputOutputInfo{}, errors.New("model declares none")
	}
	if name == "" {
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("no tensor named %q", name)
}

// concreteShape заменяет динамические оси: батч на 1, H и W на size.
func concreteShape(dims []int64, size entity.Size) ort.Shape {
	shape := make([]int64, len(dims))
	for i, d := range dims {
		switch {
		case d > 0:
			shape[i] = d
		case i == 1 && size.Height > 0:
			shape[i] = int64(size.Height)
		case i == 2 && size.Width > 0:
			shape[i] = int64(size.Width)
		default:
			shape[i] = 1
		}
	}
	return ort.NewShape(shape...)
}

// matchShape сравнивает форму тензора с объявленной; отрицательная ось совпадает с любой.
func matchShape(declared, got []int64) bool {
	if len(declared) != len(got) {
		return false
	}
	for i, d := range declared {
		if d >= 0 && d != got[i] {
			return false
		}
	}
	return true
}

var (
	_ port.ModelLoader = (*Loader)(nil)
	_ port.Classifier  = (*Classifier)(nil)
)
