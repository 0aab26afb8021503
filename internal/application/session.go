package app

import (
	"context"

	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, sessionID string, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, sessionID, chatID)
}

func (s *SessionService) SetState(ctx context.Context, sessionID string, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, sessionID, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Reset возвращает сессию в начальное состояние (отмена или новая загрузка).
func (s *SessionService) Reset(ctx context.Context, sessionID string, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, sessionID, chatID, entity.StateIdle)
}
