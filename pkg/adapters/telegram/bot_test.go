package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	updates chan tgbotapi.Update
	sent    []tgbotapi.Chattable
	stopped bool
	failOn  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8), failOn: -1}
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == f.failOn {
		return tgbotapi.Message{}, errors.New("telegram down")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func textUpdate(id int, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: 10, UserName: "ana", FirstName: "Ana"},
			Text: text,
			Date: 1767225600,
		},
	}
}

func TestBot_SendText(t *testing.T) {
	api := newFakeAPI()
	bot := newBot(api, "renfebot")

	require.NoError(t, bot.SendText(context.Background(), 5, "Hola"))

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(5), msg.ChatID)
	assert.Equal(t, "Hola", msg.Text)
}

func TestBot_SendText_Splits(t *testing.T) {
	api := newFakeAPI()
	bot := newBot(api, "renfebot")

	line := strings.Repeat("á", 99) + "\n"
	text := strings.Repeat(line, 50) // 5000 runes

	require.NoError(t, bot.SendText(context.Background(), 5, text))
	require.Len(t, api.sent, 2)

	first := api.sent[0].(tgbotapi.MessageConfig).Text
	second := api.sent[1].(tgbotapi.MessageConfig).Text
	assert.True(t, strings.HasSuffix(first, "\n"), "chunks should break on a newline")
	assert.LessOrEqual(t, len([]rune(first)), MaxMessageLength)
	assert.Equal(t, text, first+second)
}

func TestBot_SendText_Error(t *testing.T) {
	api := newFakeAPI()
	api.failOn = 0
	bot := newBot(api, "renfebot")

	assert.Error(t, bot.SendText(context.Background(), 5, "Hola"))
}

func TestBot_SendDocument(t *testing.T) {
	api := newFakeAPI()
	bot := newBot(api, "renfebot")

	require.NoError(t, bot.SendDocument(context.Background(), 5, "logs/a.log", "debug"))

	require.Len(t, api.sent, 1)
	doc, ok := api.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, "debug", doc.Caption)
	assert.Equal(t, tgbotapi.FilePath("logs/a.log"), doc.File)
}

func TestBot_Poll(t *testing.T) {
	api := newFakeAPI()
	bot := newBot(api, "renfebot")

	api.updates <- textUpdate(1, 5, "/buscar")
	api.updates <- tgbotapi.Update{UpdateID: 2} // not a message
	api.updates <- textUpdate(3, 5, "madrid")

	ctx, cancel := context.WithCancel(context.Background())
	var got []domain.Message
	done := make(chan error)
	go func() {
		done <- bot.Poll(ctx, func(ctx context.Context, msg domain.Message) error {
			got = append(got, msg)
			if len(got) == 2 {
				cancel()
			}
			return errors.New("ignored")
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not stop")
	}

	require.Len(t, got, 2)
	assert.Equal(t, "/buscar", got[0].Text)
	assert.Equal(t, "madrid", got[1].Text)
	assert.Equal(t, int64(5), got[1].ChatID)
	assert.Equal(t, "ana", got[1].Username)
	assert.Equal(t, "Ana", got[1].FirstName)
	assert.False(t, got[1].SentAt.IsZero())
	assert.True(t, api.stopped)
}

func TestSplit_Short(t *testing.T) {
	assert.Equal(t, []string{"hola"}, split("hola", 10))
}
