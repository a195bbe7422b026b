package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Command(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/buscar", "buscar"},
		{"  /Ayuda  ", "ayuda"},
		{"/start@RenfeBot", "start"},
		{"/reintentar now", "reintentar"},
		{"Madrid", ""},
		{"/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			msg := Message{Text: tt.text}
			assert.Equal(t, tt.want, msg.Command())
			assert.Equal(t, tt.want != "", msg.IsCommand())
		})
	}
}

func TestMessage_SessionID(t *testing.T) {
	assert.Equal(t, "-1001234", Message{ChatID: -1001234}.SessionID())
}
