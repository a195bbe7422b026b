package runtime_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/renfebot/internal/runtime"
	"github.com/aretw0/renfebot/pkg/adapters/memory"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/stretchr/testify/require"
)

// fixedNow is "today" for every date answer in these tests.
var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

type fakeResolver map[string]string

func (f fakeResolver) Resolve(input string) (string, error) {
	if name, ok := f[strings.ToLower(input)]; ok {
		return name, nil
	}
	return "", domain.ErrUnknownStation
}

func newEngine(t *testing.T, opts []runtime.EngineOption, nodes ...domain.Node) *runtime.Engine {
	t.Helper()
	loader, err := memory.NewFromNodes(nodes...)
	require.NoError(t, err)

	base := []runtime.EngineOption{
		runtime.WithClock(func() time.Time { return fixedNow }),
		runtime.WithStationResolver(fakeResolver{"madrid": "MADRID", "sevilla": "SEVILLA"}),
	}
	return runtime.NewEngine(loader, nil, append(base, opts...)...)
}

func question(id, inputType, saveTo string, transitions ...domain.Transition) domain.Node {
	return domain.Node{
		ID:          id,
		Type:        domain.NodeTypeQuestion,
		Content:     []byte(id + "?"),
		InputType:   inputType,
		SaveTo:      saveTo,
		Transitions: transitions,
		OnSignal:    map[string]string{domain.SignalCancel: "cancelled"},
	}
}

func to(id string) domain.Transition {
	return domain.Transition{ToNodeID: id}
}

func when(cond, id string) domain.Transition {
	return domain.Transition{ToNodeID: id, Condition: cond}
}
