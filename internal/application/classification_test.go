package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
	"teeth-classifier/internal/infrastructure/storage"
	"teeth-classifier/internal/infrastructure/vision"
)

var testSize = entity.Size{Width: 100, Height: 100}

type stubClassifier struct {
	scores []float32
	size   entity.Size
	calls  int
}

func (c *stubClassifier) Predict(ctx context.Context, t entity.Tensor) (entity.Prediction, error) {
	c.calls++
	want := []int64{1, int64(c.size.Height), int64(c.size.Width), entity.Channels}
	for i := range want {
		if t.Shape[i] != want[i] {
			return entity.Prediction{}, &entity.ShapeMismatchError{Want: want, Got: t.Shape}
		}
	}
	return entity.Prediction{Scores: c.scores}, nil
}

func (c *stubClassifier) InputSize() entity.Size { return c.size }
func (c *stubClassifier) Close() error           { return nil }

type stubProvider struct {
	classifier port.Classifier
	err        error
}

func (p *stubProvider) Ensure(context.Context) (port.Classifier, error) {
	return p.classifier, p.err
}

// countingPreprocessor считает вызовы поверх настоящего препроцессора.
type countingPreprocessor struct {
	*vision.Preprocessor
	decodes, preprocesses int
}

func (p *countingPreprocessor) Decode(data []byte) (image.Image, string, error) {
	p.decodes++
	return p.Preprocessor.Decode(data)
}

func (p *countingPreprocessor) Preprocess(img image.Image, size entity.Size) (entity.Tensor, error) {
	p.preprocesses++
	return p.Preprocessor.Preprocess(img, size)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newService(provider port.ModelProvider, size entity.Size) (*ClassificationService, *SessionService, *countingPreprocessor) {
	sessions := NewSessionService(storage.NewMemorySessionRepository())
	pre := &countingPreprocessor{Preprocessor: vision.NewPreprocessor()}
	return NewClassificationService(sessions, provider, pre, size), sessions, pre
}

func TestClassificationService_Classify(t *testing.T) {
	classifier := &stubClassifier{
		scores: []float32{0.05, 0.02, 0.80, 0.03, 0.04, 0.03, 0.03},
		size:   testSize,
	}
	svc, sessions, _ := newService(&stubProvider{classifier: classifier}, testSize)
	ctx := context.Background()

	upload, err := svc.Accept(ctx, "1", 10, pngBytes(t, 640, 480))
	require.NoError(t, err)
	require.Equal(t, "png", upload.Format)

	s, err := sessions.Get(ctx, "1", 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingResult, s.State)

	report, err := svc.Classify(ctx, "1", 10, upload)
	require.NoError(t, err)
	require.Equal(t, entity.LabelGum, report.Label)
	require.Equal(t, entity.LabelGum.Description(), report.Description)
	require.Equal(t, "CaS", string(report.Probabilities[0].Label))
	require.Equal(t, "5.00%", report.Probabilities[0].Percent)
	require.Equal(t, "80.00%", report.Probabilities[2].Percent)

	s, err = sessions.Get(ctx, "1", 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateResultShown, s.State)
}

func TestClassificationService_LoadErrorHalts(t *testing.T) {
	loadErr := &entity.LoadError{Path: "model.onnx", Err: errors.New("corrupt")}
	svc, sessions, pre := newService(&stubProvider{err: loadErr}, testSize)
	ctx := context.Background()

	_, err := svc.ClassifyBytes(ctx, "1", 10, pngBytes(t, 10, 10))
	require.Equal(t, "load", entity.Kind(err))
	require.Zero(t, pre.decodes)
	require.Zero(t, pre.preprocesses)

	s, err := sessions.Get(ctx, "1", 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, s.State)
}

func TestClassificationService_ShapeMismatch(t *testing.T) {
	classifier := &stubClassifier{size: entity.Size{Width: 150, Height: 150}}
	svc, sessions, _ := newService(&stubProvider{classifier: classifier}, testSize)
	ctx := context.Background()

	require.Equal(t, "shape", entity.Kind(svc.CheckModel(ctx)))

	_, err := svc.ClassifyBytes(ctx, "1", 10, pngBytes(t, 10, 10))
	var shapeErr *entity.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, []int64{1, 100, 100, 3}, shapeErr.Got)

	s, err := sessions.Get(ctx, "1", 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, s.State)
}

func TestClassificationService_BadImage(t *testing.T) {
	classifier := &stubClassifier{size: testSize}
	svc, _, pre := newService(&stubProvider{classifier: classifier}, testSize)

	_, err := svc.ClassifyBytes(context.Background(), "1", 10, []byte("definitely not a png"))
	require.ErrorIs(t, err, entity.ErrUnsupportedImage)
	require.Zero(t, pre.preprocesses)
	require.Zero(t, classifier.calls)
}

func TestClassificationService_CheckModel(t *testing.T) {
	svc, _, _ := newService(&stubProvider{classifier: &stubClassifier{size: testSize}}, testSize)
	require.NoError(t, svc.CheckModel(context.Background()))
}
