package domain

import (
	"strconv"
	"strings"
	"time"
)

// Message is an inbound chat message, independent of the transport that delivered it.
type Message struct {
	ChatID    int64     `json:"chat_id"`
	UserID    int64     `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at,omitempty"`
}

// SessionID is the conversation key for the chat the message came from.
func (m Message) SessionID() string {
	return strconv.FormatInt(m.ChatID, 10)
}

// IsCommand reports whether the text starts with a slash command.
func (m Message) IsCommand() bool {
	return m.Command() != ""
}

// Command returns the command name without the leading slash or the
// "@botname" suffix. It returns "" for plain text.
func (m Message) Command() string {
	text := strings.TrimSpace(m.Text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.Fields(text[1:])
	if len(name) == 0 {
		return ""
	}
	cmd, _, _ := strings.Cut(name[0], "@")
	return strings.ToLower(cmd)
}
