package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/runner"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the longest text Telegram accepts in one message.
const MaxMessageLength = 4096

// DefaultPollTimeout is the long polling timeout in seconds.
const DefaultPollTimeout = 60

// api is the subset of *tgbotapi.BotAPI the bot uses.
type api interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot is the Telegram transport. It implements runner.Messenger and feeds
// updates received by long polling into a handler.
type Bot struct {
	api         api
	username    string
	pollTimeout int
	logger      *slog.Logger
}

var _ runner.Messenger = (*Bot)(nil)

// Option configures a Bot.
type Option func(*Bot)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithPollTimeout sets the long polling timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(b *Bot) {
		b.pollTimeout = seconds
	}
}

// New authenticates with token and returns a Bot.
func New(token string, opts ...Option) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return newBot(botAPI, botAPI.Self.UserName, opts...), nil
}

func newBot(a api, username string, opts ...Option) *Bot {
	b := &Bot{
		api:         a,
		username:    username,
		pollTimeout: DefaultPollTimeout,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Username is the bot's Telegram handle.
func (b *Bot) Username() string {
	return b.username
}

// SendText sends text, split into as many messages as Telegram requires.
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range split(text, MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

// SendDocument uploads the file at path.
func (b *Bot) SendDocument(ctx context.Context, chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("telegram send document %s: %w", path, err)
	}
	return nil
}

// Poll receives updates until ctx is done. Text messages are handed to
// handle one at a time, in arrival order. Handler errors are logged.
func (b *Bot) Poll(ctx context.Context, handle runner.HandlerFunc) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("polling telegram", "bot", b.username)
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg, ok := toMessage(update)
			if !ok {
				continue
			}
			if err := handle(ctx, msg); err != nil {
				b.logger.Error("failed to handle update", "update_id", update.UpdateID, "chat_id", msg.ChatID, "err", err)
			}
		}
	}
}

// toMessage converts text updates. Anything else is ignored.
func toMessage(update tgbotapi.Update) (domain.Message, bool) {
	m := update.Message
	if m == nil || m.Chat == nil || m.Text == "" {
		return domain.Message{}, false
	}

	msg := domain.Message{
		ChatID: m.Chat.ID,
		Text:   m.Text,
		SentAt: m.Time(),
	}
	if m.From != nil {
		msg.UserID = m.From.ID
		msg.Username = m.From.UserName
		msg.FirstName = m.From.FirstName
	}
	return msg, true
}

// split cuts text into chunks of at most limit runes, preferring line breaks.
func split(text string, limit int) []string {
	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		text = string(runes[cut:])
	}
	return append(chunks, text)
}
