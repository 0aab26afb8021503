package port

import (
	"context"

	"teeth-classifier/internal/domain/entity"
)

// Classifier интерфейс загруженной модели
type Classifier interface {
	// Predict выполняет один прямой проход и возвращает сырой выход модели
	Predict(ctx context.Context, tensor entity.Tensor) (entity.Prediction, error)

	// InputSize возвращает размер изображения, на котором обучена модель
	InputSize() entity.Size

	// Close освобождает ресурсы модели
	Close() error
}

// ModelLoader загружает артефакт модели с диска
type ModelLoader interface {
	Load(path string) (Classifier, error)
}

// ModelProvider даёт доступ к единственному экземпляру модели процесса
type ModelProvider interface {
	Ensure(ctx context.Context) (Classifier, error)
}
