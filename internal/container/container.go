package container

import (
	app "teeth-classifier/internal/application"
	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
)

type Container struct {
	SessionService        *app.SessionService
	ClassificationService *app.ClassificationService
	Models                port.ModelProvider
}

func New(sessionRepo port.SessionRepository, models port.ModelProvider, preprocessor port.Preprocessor, size entity.Size) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	classificationService := app.NewClassificationService(sessionService, models, preprocessor, size)

	return &Container{
		SessionService:        sessionService,
		ClassificationService: classificationService,
		Models:                models,
	}
}
