package flow_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/renfebot/internal/runtime"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stations struct{}

func (stations) Resolve(input string) (string, error) {
	switch input {
	case "madrid":
		return "MADRID (TODAS)", nil
	case "barcelona":
		return "BARCELONA (TODAS)", nil
	}
	return "", domain.ErrUnknownStation
}

func newEngine(t *testing.T) *runtime.Engine {
	t.Helper()
	loader, err := flow.New()
	require.NoError(t, err)
	return runtime.NewEngine(loader, nil,
		runtime.WithEntryNode(flow.Entry),
		runtime.WithStationResolver(stations{}),
		runtime.WithClock(func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }),
	)
}

func answer(t *testing.T, eng *runtime.Engine, answers ...string) *domain.State {
	t.Helper()
	ctx := context.Background()
	state, err := eng.Start(ctx, "7", nil)
	require.NoError(t, err)
	for _, a := range answers {
		state, err = eng.Navigate(ctx, state, a)
		require.NoError(t, err, "answer %q at %s", a, state.CurrentNodeID)
	}
	return state
}

func TestFlow_OneWayWithoutFilters(t *testing.T) {
	eng := newEngine(t)
	state := answer(t, eng, "madrid", "barcelona", "02-05-2026", "N", "N")

	assert.Equal(t, flow.Search, state.CurrentNodeID)
	assert.Equal(t, domain.StatusWaitingForSearch, state.Status)

	req, err := eng.Request(state)
	require.NoError(t, err)
	assert.Equal(t, domain.SearchRequest{
		OriginStation:      "MADRID (TODAS)",
		DestinationStation: "BARCELONA (TODAS)",
		DepartureDate:      "02-05-2026",
	}, req)
	assert.False(t, req.Filtered())
}

func TestFlow_ReturnTripWithFilters(t *testing.T) {
	eng := newEngine(t)
	state := answer(t, eng,
		"madrid", "barcelona", "02-05-2026",
		"S", "04-05-2026",
		"S", "60", "3,5",
		"07:00", "10:00",
		"16:00", "20:30",
	)

	assert.Equal(t, flow.Search, state.CurrentNodeID)
	assert.Equal(t, []string{
		flow.Origin, flow.Destination, flow.DepartureDate, flow.Return, flow.ReturnDate,
		flow.Filter, flow.MaxPrice, flow.MaxDuration, flow.OutboundFrom, flow.OutboundTo,
		flow.ReturnFrom, flow.ReturnTo, flow.Search,
	}, state.History)

	req, err := eng.Request(state)
	require.NoError(t, err)
	assert.Equal(t, domain.SearchRequest{
		OriginStation:      "MADRID (TODAS)",
		DestinationStation: "BARCELONA (TODAS)",
		DepartureDate:      "02-05-2026",
		Return:             true,
		ReturnDate:         "04-05-2026",
		MaxPrice:           60,
		MaxDuration:        3.5,
		OutboundEarliest:   "07:00",
		OutboundLatest:     "10:00",
		ReturnEarliest:     "16:00",
		ReturnLatest:       "20:30",
	}, req)
}

func TestFlow_OneWayFilterSkipsReturnWindow(t *testing.T) {
	eng := newEngine(t)
	state := answer(t, eng, "madrid", "barcelona", "02-05-2026", "n", "s", "0", "0", "07:00", "10:00")

	assert.Equal(t, flow.Search, state.CurrentNodeID)
	assert.NotContains(t, state.History, flow.ReturnFrom)
}

func TestFlow_UnknownStationRetries(t *testing.T) {
	eng := newEngine(t)
	state := answer(t, eng)

	_, err := eng.Navigate(context.Background(), state, "Hogwarts")
	var inputErr *runtime.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, flow.PromptUnknownStation, inputErr.Prompt)
}

func TestFlow_EveryQuestionCancels(t *testing.T) {
	eng := newEngine(t)
	nodes, err := eng.Inspect()
	require.NoError(t, err)

	for _, n := range nodes {
		if !n.IsQuestion() {
			continue
		}
		t.Run(n.ID, func(t *testing.T) {
			state := domain.NewState("7", n.ID)
			next, err := eng.Signal(context.Background(), state, domain.SignalCancel)
			require.NoError(t, err)
			assert.Equal(t, flow.Cancelled, next.CurrentNodeID)
			assert.True(t, next.IsTerminal())
		})
	}
}

func TestFlow_FirstPrompt(t *testing.T) {
	eng := newEngine(t)
	state := answer(t, eng)

	actions, terminal, err := eng.Render(context.Background(), state)
	require.NoError(t, err)
	assert.False(t, terminal)
	assert.Equal(t, flow.PromptOrigin, actions[0].Payload)
}
