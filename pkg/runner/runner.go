package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/renfebot"
	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/adapters/memory"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/flow"
	"github.com/aretw0/renfebot/pkg/ports"
	"github.com/aretw0/renfebot/pkg/registry"
	"github.com/aretw0/renfebot/pkg/session"
)

// Runner turns inbound chat messages into conversation steps, commands and
// searches. It is safe for concurrent use by one goroutine per update.
type Runner struct {
	engine    ports.Conversation
	messenger Messenger
	searcher  ports.Searcher

	sessions      *session.Manager
	guard         ports.SearchGuard
	snapshot      ports.LastRequestStore
	archive       ports.LogArchive
	commands      *registry.Registry
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	middleware    []Middleware
	searchTimeout time.Duration
	sanitizer     Sanitizer

	handle HandlerFunc

	// searches run detached from the update that started them.
	base     context.Context
	stop     context.CancelFunc
	inflight sync.WaitGroup
}

// New creates a Runner. The engine, messenger and searcher are required.
func New(engine ports.Conversation, messenger Messenger, searcher ports.Searcher, opts ...Option) (*Runner, error) {
	if engine == nil {
		return nil, errors.New("runner: engine is required")
	}
	if messenger == nil {
		return nil, errors.New("runner: messenger is required")
	}
	if searcher == nil {
		return nil, errors.New("runner: searcher is required")
	}

	r := &Runner{
		engine:    engine,
		messenger: messenger,
		searcher:  searcher,
		sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.sessions == nil {
		r.sessions = session.NewManager(memory.NewStore(), session.WithLogger(r.logger))
	}
	if r.guard == nil {
		r.guard = memory.NewGuard()
	}
	if r.snapshot == nil {
		r.snapshot = memory.NewLastRequest()
	}
	if r.commands == nil {
		r.commands = registry.NewRegistry()
	}
	r.registerCommands()

	r.base, r.stop = context.WithCancel(context.Background())
	r.handle = Chain(r.dispatch, r.middleware...)
	return r, nil
}

// Registry returns the command registry, so hosts can add their own commands.
func (r *Runner) Registry() *registry.Registry {
	return r.commands
}

// Handle processes one inbound message.
func (r *Runner) Handle(ctx context.Context, msg domain.Message) error {
	return r.handle(ctx, msg)
}

// Wait blocks until every running search has replied.
func (r *Runner) Wait() {
	r.inflight.Wait()
}

// Close interrupts running searches and waits for them to finish.
func (r *Runner) Close() error {
	r.stop()
	r.inflight.Wait()
	return nil
}

func (r *Runner) registerCommands() {
	r.commands.Register(CmdStart, "", r.cmdStart)
	r.commands.Register(CmdHelp, "Muestra los comandos disponibles", r.cmdHelp, "help")
	r.commands.Register(CmdSearch, "Busca billetes de tren", r.cmdSearch)
	r.commands.Register(CmdRetry, "Vuelve a buscar billetes con los parámetros de la última búsqueda", r.cmdRetry)
	r.commands.Register(CmdDebug, "Muestra información de depuración del último log", r.cmdDebug)
	r.commands.Register(CmdCancel, "Cancela la búsqueda en curso", r.cmdCancel)
}

func (r *Runner) dispatch(ctx context.Context, msg domain.Message) error {
	clean, err := r.sanitizer.Clean(msg.Text)
	if err != nil {
		r.logger.Warn("rejected inbound message", "chat_id", msg.ChatID, "err", err)
		return r.reply(ctx, msg, MsgUnreadable)
	}
	msg.Text = strings.TrimSpace(clean)

	if !msg.IsCommand() {
		return r.converse(ctx, msg)
	}

	name := msg.Command()
	if name != CmdCancel {
		if err := r.abandon(ctx, msg); err != nil {
			return err
		}
	}

	err = r.commands.Execute(ctx, name, msg)
	if errors.Is(err, registry.ErrUnknownCommand) {
		return r.reply(ctx, msg, MsgUnknownCommand)
	}
	return err
}

// converse feeds plain text into the chat's pending conversation.
func (r *Runner) converse(ctx context.Context, msg domain.Message) error {
	sessionID := msg.SessionID()
	return r.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := r.sessions.Store()
		state, err := store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return r.reply(ctx, msg, MsgHint)
		}
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}

		next, err := r.engine.Navigate(ctx, state, msg.Text)
		if prompt, ok := renfebot.IsInputError(err); ok {
			return r.reply(ctx, msg, prompt)
		}
		if err != nil {
			r.dropSession(ctx, store, msg)
			if replyErr := r.reply(ctx, msg, MsgInternalError); replyErr != nil {
				r.logger.Warn("failed to notify chat", "chat_id", msg.ChatID, "err", replyErr)
			}
			return fmt.Errorf("navigate session %s: %w", sessionID, err)
		}

		return r.advance(ctx, msg, store, next)
	})
}

// advance persists (or drops) the state and performs what the engine renders for it.
func (r *Runner) advance(ctx context.Context, msg domain.Message, store ports.StateStore, state *domain.State) error {
	sessionID := msg.SessionID()
	actions, terminal, err := r.engine.Render(ctx, state)
	if err != nil {
		r.dropSession(ctx, store, msg)
		return fmt.Errorf("render session %s: %w", sessionID, err)
	}

	if terminal || state.Status != domain.StatusActive {
		err = store.Delete(ctx, sessionID)
	} else {
		err = store.Save(ctx, sessionID, state)
	}
	if err != nil {
		return fmt.Errorf("failed to persist session %s: %w", sessionID, err)
	}

	return r.perform(ctx, msg, actions)
}

// perform sends rendered content and starts the search the engine asks for.
func (r *Runner) perform(ctx context.Context, msg domain.Message, actions []domain.ActionRequest) error {
	var texts []string
	var search *domain.SearchRequest
	for _, act := range actions {
		switch act.Type {
		case domain.ActionRenderContent:
			if text, ok := act.Payload.(string); ok && text != "" {
				texts = append(texts, text)
			}
		case domain.ActionRunSearch:
			if req, ok := act.Payload.(domain.SearchRequest); ok {
				search = &req
			}
		}
	}

	if search != nil {
		return r.runSearch(ctx, msg, *search, strings.Join(texts, "\n"))
	}
	for _, text := range texts {
		if err := r.reply(ctx, msg, text); err != nil {
			return err
		}
	}
	return nil
}

// abandon drops the chat's pending conversation, if any.
func (r *Runner) abandon(ctx context.Context, msg domain.Message) error {
	if err := r.sessions.Delete(ctx, msg.SessionID()); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("failed to abandon session %s: %w", msg.SessionID(), err)
	}
	return nil
}

func (r *Runner) cmdStart(ctx context.Context, msg domain.Message) error {
	name := msg.FirstName
	if name == "" {
		name = msg.Username
	}
	return r.reply(ctx, msg, fmt.Sprintf(MsgWelcome, name))
}

func (r *Runner) cmdHelp(ctx context.Context, msg domain.Message) error {
	return r.reply(ctx, msg, strings.TrimRight(r.commands.Help(), "\n"))
}

func (r *Runner) cmdSearch(ctx context.Context, msg domain.Message) error {
	active, err := r.guard.Active(ctx)
	if err != nil {
		return fmt.Errorf("failed to check search flag: %w", err)
	}
	if active {
		return r.reply(ctx, msg, MsgBusy)
	}

	sessionID := msg.SessionID()
	return r.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := r.engine.Start(ctx, sessionID, nil)
		if err != nil {
			return fmt.Errorf("failed to start conversation: %w", err)
		}
		return r.advance(ctx, msg, r.sessions.Store(), state)
	})
}

func (r *Runner) cmdRetry(ctx context.Context, msg domain.Message) error {
	req, err := r.snapshot.Load(ctx)
	if errors.Is(err, domain.ErrNoLastRequest) {
		return r.reply(ctx, msg, MsgNoLastRequest)
	}
	if err != nil {
		return fmt.Errorf("failed to load last request: %w", err)
	}
	return r.runSearch(ctx, msg, req, flow.PromptSearching)
}

func (r *Runner) cmdDebug(ctx context.Context, msg domain.Message) error {
	if r.archive == nil {
		return r.reply(ctx, msg, MsgNoLogs)
	}
	path, err := r.archive.Latest(ctx, logOwner(msg))
	if errors.Is(err, domain.ErrNoLogs) {
		return r.reply(ctx, msg, MsgNoLogs)
	}
	if err != nil {
		return fmt.Errorf("failed to find logs: %w", err)
	}
	if err := r.reply(ctx, msg, MsgDebug); err != nil {
		return err
	}
	if err := r.messenger.SendDocument(ctx, msg.ChatID, path, ""); err != nil {
		return fmt.Errorf("failed to send %s: %w", path, err)
	}
	return nil
}

func (r *Runner) cmdCancel(ctx context.Context, msg domain.Message) error {
	canceled, err := r.guard.Cancel(ctx)
	if err != nil {
		return fmt.Errorf("failed to lower search flag: %w", err)
	}

	aborted, err := r.abort(ctx, msg)
	if err != nil {
		return err
	}

	if canceled || aborted {
		return r.reply(ctx, msg, MsgCancelled)
	}
	return r.reply(ctx, msg, MsgNothingToCancel)
}

// abort raises the cancel signal on the chat's pending conversation and drops it.
func (r *Runner) abort(ctx context.Context, msg domain.Message) (bool, error) {
	sessionID := msg.SessionID()
	aborted := false
	err := r.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := r.sessions.Store()
		state, err := store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}

		if _, err := r.engine.Signal(ctx, state, domain.SignalCancel); err != nil && !errors.Is(err, domain.ErrUnhandledSignal) {
			r.logger.Warn("cancel signal failed", "session_id", sessionID, "err", err)
		}
		aborted = true
		return store.Delete(ctx, sessionID)
	})
	return aborted, err
}

func (r *Runner) reply(ctx context.Context, msg domain.Message, text string) error {
	if err := r.messenger.SendText(ctx, msg.ChatID, text); err != nil {
		return fmt.Errorf("failed to reply to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// dropSession discards a conversation that can no longer advance.
func (r *Runner) dropSession(ctx context.Context, store ports.StateStore, msg domain.Message) {
	if err := store.Delete(ctx, msg.SessionID()); err != nil {
		r.logger.Warn("failed to drop conversation", "chat_id", msg.ChatID, "err", err)
	}
}

// logOwner names the archive entries of the sender.
// The fallbacks start with '#', which Telegram usernames cannot contain.
func logOwner(msg domain.Message) string {
	if msg.Username != "" {
		return msg.Username
	}
	if msg.UserID != 0 {
		return "#user" + strconv.FormatInt(msg.UserID, 10)
	}
	return "#chat" + msg.SessionID()
}
