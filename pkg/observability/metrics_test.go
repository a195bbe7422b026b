package observability_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: "origin"})
	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: "origin"})
	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: "destination"})

	hooks.OnSearchStart(ctx, &domain.SearchEvent{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesActive))

	hooks.OnSearchFinish(ctx, &domain.SearchEvent{Outcome: "ok", Duration: 3 * time.Second})
	hooks.OnSearchFinish(ctx, &domain.SearchEvent{Outcome: "busy"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues("origin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("busy")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SearchesActive))

	expected := `
# HELP renfebot_searches_total Total number of searches by outcome
# TYPE renfebot_searches_total counter
renfebot_searches_total{outcome="busy"} 1
renfebot_searches_total{outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "renfebot_searches_total"))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnNodeEnter: func(context.Context, *domain.NodeEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnNodeEnter:    func(context.Context, *domain.NodeEvent) { calls = append(calls, "b") },
		OnSearchFinish: func(context.Context, *domain.SearchEvent) { calls = append(calls, "b-search") },
	}

	hooks := observability.Combine(a, b)
	hooks.OnNodeEnter(context.Background(), &domain.NodeEvent{})
	hooks.OnSearchFinish(context.Background(), &domain.SearchEvent{})

	assert.Nil(t, hooks.OnNodeLeave)
	assert.Nil(t, hooks.OnSearchStart)
	assert.Equal(t, []string{"a", "b", "b-search"}, calls)
}
