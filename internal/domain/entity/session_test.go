package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession("42", 10)
	require.Equal(t, StateIdle, s.State)
	require.Equal(t, "42", s.ID)
	require.Equal(t, int64(10), s.ChatID)

	s.SetState(StateResultShown)
	require.Equal(t, StateResultShown, s.State)
}
