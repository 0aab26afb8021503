package entity

// SessionState состояние пользовательской сессии.
type SessionState string

const (
	StateIdle           SessionState = "idle"            // изображение ещё не загружено
	StateAwaitingResult SessionState = "awaiting_result" // изображение загружено, идёт классификация
	StateResultShown    SessionState = "result_shown"    // результат показан
)

// Session представляет пользователя одной из поверхностей (Telegram или веб)
type Session struct {
	ID     string       // идентификатор сессии
	ChatID int64        // Telegram Chat ID, 0 для веба
	State  SessionState // текущее состояние
}

// NewSession создаёт сессию с начальным состоянием
func NewSession(id string, chatID int64) *Session {
	return &Session{
		ID:     id,
		ChatID: chatID,
		State:  StateIdle,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}
