package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
)

// Upload принятое и декодированное изображение.
type Upload struct {
	Image  image.Image
	Format string
}

type ClassificationService struct {
	sessions     *SessionService
	models       port.ModelProvider
	preprocessor port.Preprocessor
	size         entity.Size
}

// NewClassificationService создаёт сервис, который ведёт сессию от загрузки до результата.
func NewClassificationService(sessions *SessionService, models port.ModelProvider, preprocessor port.Preprocessor, size entity.Size) *ClassificationService {
	return &ClassificationService{
		sessions:     sessions,
		models:       models,
		preprocessor: preprocessor,
		size:         size,
	}
}

// Accept проверяет, что модель доступна, декодирует загрузку и переводит сессию в ожидание результата.
// Если модель не загрузилась, изображение не обрабатывается.
func (s *ClassificationService) Accept(ctx context.Context, sessionID string, chatID int64, data []byte) (*Upload, error) {
	if _, err := s.models.Ensure(ctx); err != nil {
		return nil, err
	}

	// Новая загрузка всегда начинает сценарий заново.
	if _, err := s.sessions.Reset(ctx, sessionID, chatID); err != nil {
		return nil, err
	}

	img, format, err := s.preprocessor.Decode(data)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.SetState(ctx, sessionID, chatID, entity.StateAwaitingResult); err != nil {
		return nil, err
	}

	slog.Debug("upload accepted",
		"session", sessionID,
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	return &Upload{Image: img, Format: format}, nil
}

// Classify прогоняет принятое изображение через препроцессор и модель.
func (s *ClassificationService) Classify(ctx context.Context, sessionID string, chatID int64, upload *Upload) (*Report, error) {
	if upload == nil {
		return nil, errors.New("nothing to classify")
	}

	report, err := s.classify(ctx, upload.Image)
	if err != nil {
		if _, resetErr := s.sessions.Reset(ctx, sessionID, chatID); resetErr != nil {
			slog.Error("reset session", "session", sessionID, "error", resetErr)
		}
		return nil, err
	}

	if _, err := s.sessions.SetState(ctx, sessionID, chatID, entity.StateResultShown); err != nil {
		return nil, err
	}

	return report, nil
}

// ClassifyBytes объединяет Accept и Classify.
func (s *ClassificationService) ClassifyBytes(ctx context.Context, sessionID string, chatID int64, data []byte) (*Report, error) {
	upload, err := s.Accept(ctx, sessionID, chatID, data)
	if err != nil {
		return nil, err
	}
	return s.Classify(ctx, sessionID, chatID, upload)
}

func (s *ClassificationService) classify(ctx context.Context, img image.Image) (*Report, error) {
	classifier, err := s.models.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	tensor, err := s.preprocessor.Preprocess(img, s.size)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	prediction, err := classifier.Predict(ctx, tensor)
	if err != nil {
		return nil, err
	}

	if err := prediction.CheckDistribution(); err != nil {
		slog.Warn("model output is not a probability distribution", "error", err)
	}

	return NewReport(prediction)
}

// CheckModel сверяет размер препроцессинга с входом модели.
func (s *ClassificationService) CheckModel(ctx context.Context) error {
	classifier, err := s.models.Ensure(ctx)
	if err != nil {
		return err
	}

	if got := classifier.InputSize(); got != s.size {
		return &entity.ShapeMismatchError{
			Want: []int64{1, int64(got.Height), int64(got.Width), entity.Channels},
			Got:  []int64{1, int64(s.size.Height), int64(s.size.Width), entity.Channels},
		}
	}
	return nil
}
