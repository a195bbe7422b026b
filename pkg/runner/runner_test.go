package runner_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/renfebot"
	"github.com/aretw0/renfebot/internal/adapters/file"
	"github.com/aretw0/renfebot/pkg/adapters/memory"
	"github.com/aretw0/renfebot/pkg/adapters/redis"
	"github.com/aretw0/renfebot/pkg/adapters/stations"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/flow"
	"github.com/aretw0/renfebot/pkg/runner"
	"github.com/aretw0/renfebot/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

type sent struct {
	chatID   int64
	text     string
	document string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sent
}

func (m *fakeMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sent{chatID: chatID, text: text})
	return nil
}

func (m *fakeMessenger) SendDocument(ctx context.Context, chatID int64, path, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sent{chatID: chatID, document: path})
	return nil
}

func (m *fakeMessenger) texts(chatID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		if s.chatID == chatID && s.text != "" {
			out = append(out, s.text)
		}
	}
	return out
}

func (m *fakeMessenger) last(chatID int64) string {
	texts := m.texts(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeSearcher struct {
	mu       sync.Mutex
	requests []domain.SearchRequest
	result   domain.SearchResult
	err      error
	block    chan struct{}
}

func (f *fakeSearcher) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.SearchResult{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeSearcher) calls() []domain.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SearchRequest(nil), f.requests...)
}

type outcomes struct {
	mu   sync.Mutex
	seen []string
}

func (o *outcomes) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSearchFinish: func(ctx context.Context, e *domain.SearchEvent) {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.seen = append(o.seen, e.Outcome)
		},
	}
}

func (o *outcomes) list() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.seen...)
}

type fixture struct {
	runner    *runner.Runner
	messenger *fakeMessenger
	searcher  *fakeSearcher
	guard     *memory.Guard
	snapshot  *memory.LastRequest
	outcomes  *outcomes
}

func newFixture(t *testing.T, searcher *fakeSearcher, opts ...runner.Option) *fixture {
	t.Helper()
	catalog, err := stations.Default()
	require.NoError(t, err)

	engine, err := renfebot.New(
		renfebot.WithStationResolver(catalog),
		renfebot.WithClock(func() time.Time { return today }),
	)
	require.NoError(t, err)

	f := &fixture{
		messenger: &fakeMessenger{},
		searcher:  searcher,
		guard:     memory.NewGuard(),
		snapshot:  memory.NewLastRequest(),
		outcomes:  &outcomes{},
	}
	base := []runner.Option{
		runner.WithGuard(f.guard),
		runner.WithSnapshot(f.snapshot),
		runner.WithArchive(file.NewArchive(t.TempDir())),
		runner.WithHooks(f.outcomes.hooks()),
	}
	f.runner, err = runner.New(engine, f.messenger, searcher, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.runner.Close() })
	return f
}

func (f *fixture) say(t *testing.T, chatID int64, text string) {
	t.Helper()
	require.NoError(t, f.runner.Handle(context.Background(), domain.Message{
		ChatID:    chatID,
		UserID:    chatID,
		Username:  "ana",
		FirstName: "Ana",
		Text:      text,
	}))
}

var oneWay = []string{"/buscar", "madrid", "barcelona sants", "24-12-2026", "n", "n"}

var madridBarcelona = domain.SearchRequest{
	OriginStation:      "MADRID (TODAS)",
	DestinationStation: "BARCELONA-SANTS",
	DepartureDate:      "24-12-2026",
}

func TestNew_RequiresCollaborators(t *testing.T) {
	engine, err := renfebot.New()
	require.NoError(t, err)

	_, err = runner.New(nil, &fakeMessenger{}, &fakeSearcher{})
	assert.Error(t, err)
	_, err = runner.New(engine, nil, &fakeSearcher{})
	assert.Error(t, err)
	_, err = runner.New(engine, &fakeMessenger{}, nil)
	assert.Error(t, err)
}

func TestRunner_Start(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/start")

	assert.Equal(t, []string{
		"Hola Ana. Bienvenido a tu bot de Renfe. Te ayudaré a encontrar billetes de tren para tus viajes. Para empezar, escribe /ayuda para ver los comandos disponibles.",
	}, f.messenger.texts(1))
}

func TestRunner_Help(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/ayuda@renfebot")

	help := f.messenger.last(1)
	lines := strings.Split(help, "\n")
	assert.Equal(t, []string{
		"/ayuda - Muestra los comandos disponibles",
		"/buscar - Busca billetes de tren",
		"/reintentar - Vuelve a buscar billetes con los parámetros de la última búsqueda",
		"/debug - Muestra información de depuración del último log",
		"/cancelar - Cancela la búsqueda en curso",
	}, lines)
}

func TestRunner_UnknownCommandAndPlainText(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/volar")
	f.say(t, 1, "hola")

	assert.Equal(t, []string{runner.MsgUnknownCommand, runner.MsgHint}, f.messenger.texts(1))
}

func TestRunner_UnreadableInput(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "\xbd\xb2")

	assert.Equal(t, []string{runner.MsgUnreadable}, f.messenger.texts(1))
}

func TestRunner_OneWaySearch(t *testing.T) {
	s := &fakeSearcher{result: domain.SearchResult{Trains: []domain.Train{
		{Service: "AVE 03063", Direction: domain.DirectionOutbound, Departure: "07:00", Arrival: "09:32", DurationMinutes: 152, Price: 43.1},
	}}}
	f := newFixture(t, s)

	for _, text := range oneWay {
		f.say(t, 1, text)
	}
	f.runner.Wait()

	texts := f.messenger.texts(1)
	require.Len(t, texts, 7)
	assert.Equal(t, []string{
		flow.PromptOrigin,
		flow.PromptDestination,
		flow.PromptDeparture,
		flow.PromptReturn,
		flow.PromptFilter,
		flow.PromptSearching,
	}, texts[:6])
	assert.Contains(t, texts[6], "🚆 Ida 24-12-2026 · MADRID (TODAS) → BARCELONA-SANTS")
	assert.Contains(t, texts[6], "07:00 → 09:32 · AVE 03063 · 2 h 32 min · 43,10 €")

	require.Len(t, s.calls(), 1)
	assert.Equal(t, madridBarcelona, s.calls()[0])

	saved, err := f.snapshot.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, madridBarcelona, saved)

	active, err := f.guard.Active(context.Background())
	require.NoError(t, err)
	assert.False(t, active, "flag must be lowered after the search")
	assert.Equal(t, []string{domain.OutcomeOK}, f.outcomes.list())

	// The conversation is over.
	f.say(t, 1, "hola")
	assert.Equal(t, runner.MsgHint, f.messenger.last(1))
}

func TestRunner_RejectedAnswerIsAskedAgain(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/buscar")
	f.say(t, 1, "Narnia")
	assert.Equal(t, flow.PromptUnknownStation, f.messenger.last(1))

	f.say(t, 1, "madrid")
	assert.Equal(t, flow.PromptDestination, f.messenger.last(1))

	f.say(t, 1, "barcelona sants")
	f.say(t, 1, "01-01-2020")
	assert.Contains(t, f.messenger.last(1), flow.PromptDeparture)
	assert.NotEqual(t, flow.PromptDeparture, f.messenger.last(1))

	f.say(t, 1, "24/12/2026")
	assert.Equal(t, flow.PromptReturn, f.messenger.last(1))
}

func TestRunner_FilteredOutResults(t *testing.T) {
	s := &fakeSearcher{result: domain.SearchResult{Trains: []domain.Train{
		{Direction: domain.DirectionOutbound, Departure: "07:00", Arrival: "09:32", Price: 80},
		{Direction: domain.DirectionOutbound, Departure: "10:00", Arrival: "12:30", Price: 95},
	}}}
	f := newFixture(t, s)

	for _, text := range []string{"/buscar", "madrid", "barcelona sants", "24-12-2026", "n", "s", "50", "0", "06:00", "12:00"} {
		f.say(t, 1, text)
	}
	f.runner.Wait()

	require.Len(t, s.calls(), 1)
	req := s.calls()[0]
	assert.Equal(t, 50.0, req.MaxPrice)
	assert.Equal(t, "06:00", req.OutboundEarliest)
	assert.Equal(t, "12:00", req.OutboundLatest)
	assert.Equal(t, "Se han encontrado 2 trenes pero ninguno cumple tus filtros", f.messenger.last(1))
	assert.Equal(t, []string{domain.OutcomeEmpty}, f.outcomes.list())
}

func TestRunner_SearchReplies(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		outcome string
	}{
		{"empty", nil, runner.MsgNoTrains, domain.OutcomeEmpty},
		{"failed", errors.New("scraper crashed"), runner.MsgSearchFailed, domain.OutcomeError},
		{"delegated", domain.ErrSearchDelegated, runner.MsgDelegated, domain.OutcomeDelegated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &fakeSearcher{err: tt.err})
			require.NoError(t, f.snapshot.Save(context.Background(), madridBarcelona))

			f.say(t, 1, "/reintentar")
			f.runner.Wait()

			assert.Equal(t, []string{flow.PromptSearching, tt.want}, f.messenger.texts(1))
			assert.Equal(t, []string{tt.outcome}, f.outcomes.list())
		})
	}
}

func TestRunner_RetryWithoutSnapshot(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/reintentar")

	assert.Equal(t, []string{runner.MsgNoLastRequest}, f.messenger.texts(1))
}

func TestRunner_BusyFlagIsGlobal(t *testing.T) {
	s := &fakeSearcher{block: make(chan struct{})}
	f := newFixture(t, s)
	require.NoError(t, f.snapshot.Save(context.Background(), madridBarcelona))

	f.say(t, 1, "/reintentar")
	f.say(t, 2, "/buscar")
	f.say(t, 2, "/reintentar")

	assert.Equal(t, []string{runner.MsgBusy, runner.MsgBusy}, f.messenger.texts(2))

	close(s.block)
	f.runner.Wait()

	assert.Equal(t, runner.MsgNoTrains, f.messenger.last(1))
	assert.ElementsMatch(t, []string{domain.OutcomeBusy, domain.OutcomeEmpty}, f.outcomes.list())

	f.say(t, 2, "/buscar")
	assert.Equal(t, flow.PromptOrigin, f.messenger.last(2))
}

func TestRunner_CancelRunningSearch(t *testing.T) {
	s := &fakeSearcher{block: make(chan struct{})}
	f := newFixture(t, s)
	require.NoError(t, f.snapshot.Save(context.Background(), madridBarcelona))

	f.say(t, 1, "/reintentar")
	f.say(t, 2, "/cancelar")
	f.runner.Wait()

	assert.Equal(t, []string{runner.MsgCancelled}, f.messenger.texts(2))
	assert.Equal(t, []string{flow.PromptSearching}, f.messenger.texts(1), "a canceled search sends no results")
	assert.Equal(t, []string{domain.OutcomeCanceled}, f.outcomes.list())

	active, err := f.guard.Active(context.Background())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRunner_CancelRunningSearch_SharedFlag(t *testing.T) {
	client := backend.NewClient(&backend.Options{Addr: miniredis.RunT(t).Addr()})
	t.Cleanup(func() { _ = client.Close() })
	// The holder never polls, so only a direct read can see the cancel.
	guard := redis.NewGuard(client, "p:", redis.WithPollInterval(time.Hour))

	s := &fakeSearcher{
		block: make(chan struct{}),
		result: domain.SearchResult{Trains: []domain.Train{
			{Service: "AVE 03063", Direction: domain.DirectionOutbound, Departure: "07:00", Arrival: "09:32", DurationMinutes: 152, Price: 43.1},
		}},
	}
	f := newFixture(t, s, runner.WithGuard(guard))
	require.NoError(t, f.snapshot.Save(context.Background(), madridBarcelona))

	f.say(t, 1, "/reintentar")
	f.say(t, 2, "/cancelar")
	close(s.block)
	f.runner.Wait()

	assert.Equal(t, []string{runner.MsgCancelled}, f.messenger.texts(2))
	assert.Equal(t, []string{flow.PromptSearching}, f.messenger.texts(1), "a canceled search sends no results")
	assert.Equal(t, []string{domain.OutcomeCanceled}, f.outcomes.list())

	active, err := guard.Active(context.Background())
	require.NoError(t, err)
	assert.False(t, active)
}

type stuckStore struct {
	*memory.Store
}

func (s stuckStore) Delete(ctx context.Context, sessionID string) error {
	return errors.New("store unavailable")
}

func TestRunner_BrokenConversationLogsDropFailure(t *testing.T) {
	store := stuckStore{Store: memory.NewStore()}
	require.NoError(t, store.Save(context.Background(), "1", domain.NewState("1", "nowhere")))

	var logs bytes.Buffer
	f := newFixture(t, &fakeSearcher{},
		runner.WithSessions(session.NewManager(store)),
		runner.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	err := f.runner.Handle(context.Background(), domain.Message{ChatID: 1, UserID: 1, Username: "ana", Text: "madrid"})
	require.Error(t, err)

	assert.Equal(t, []string{runner.MsgInternalError}, f.messenger.texts(1))
	assert.Contains(t, logs.String(), "failed to drop conversation")
	assert.Contains(t, logs.String(), "store unavailable")
}

func TestRunner_CancelConversation(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/buscar")
	f.say(t, 1, "madrid")
	f.say(t, 1, "/cancelar")
	f.say(t, 1, "barcelona sants")

	texts := f.messenger.texts(1)
	assert.Equal(t, []string{flow.PromptOrigin, flow.PromptDestination, runner.MsgCancelled, runner.MsgHint}, texts)
}

func TestRunner_CancelNothing(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/cancelar")

	assert.Equal(t, []string{runner.MsgNothingToCancel}, f.messenger.texts(1))
}

func TestRunner_CommandAbandonsConversation(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/buscar")
	f.say(t, 1, "madrid")
	f.say(t, 1, "/start")
	f.say(t, 1, "barcelona sants")

	assert.Equal(t, runner.MsgHint, f.messenger.last(1))
}

func TestRunner_ConversationsArePerChat(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/buscar")
	f.say(t, 2, "/buscar")
	f.say(t, 1, "madrid")
	f.say(t, 2, "sevilla")

	assert.Equal(t, flow.PromptDestination, f.messenger.last(1))
	assert.Equal(t, flow.PromptDestination, f.messenger.last(2))
}

func TestRunner_Debug(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.say(t, 1, "/debug")
	assert.Equal(t, runner.MsgNoLogs, f.messenger.last(1))

	require.NoError(t, f.snapshot.Save(context.Background(), madridBarcelona))
	f.say(t, 1, "/reintentar")
	f.runner.Wait()

	f.say(t, 1, "/debug")
	assert.Equal(t, runner.MsgDebug, f.messenger.last(1))

	f.messenger.mu.Lock()
	doc := f.messenger.sent[len(f.messenger.sent)-1].document
	f.messenger.mu.Unlock()
	assert.Contains(t, doc, "_ana.log")
}

func TestRunner_Middleware(t *testing.T) {
	var seen []int64
	record := func(next runner.HandlerFunc) runner.HandlerFunc {
		return func(ctx context.Context, msg domain.Message) error {
			seen = append(seen, msg.ChatID)
			return next(ctx, msg)
		}
	}
	f := newFixture(t, &fakeSearcher{}, runner.WithMiddleware(record))
	f.say(t, 7, "/start")

	assert.Equal(t, []int64{7}, seen)
}

func TestRunner_CloseInterruptsSearch(t *testing.T) {
	s := &fakeSearcher{block: make(chan struct{})}
	f := newFixture(t, s)
	require.NoError(t, f.snapshot.Save(context.Background(), madridBarcelona))

	f.say(t, 1, "/reintentar")
	require.NoError(t, f.runner.Close())

	assert.Equal(t, runner.MsgInterrupted, f.messenger.last(1))
	assert.Equal(t, []string{domain.OutcomeCanceled}, f.outcomes.list())
}
