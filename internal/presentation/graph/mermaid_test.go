package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/renfebot/internal/presentation/graph"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid_Shapes(t *testing.T) {
	nodes := []domain.Node{
		{ID: "origin", Type: domain.NodeTypeQuestion, InputType: string(domain.InputStation)},
		{ID: "filter", Type: domain.NodeTypeQuestion, InputType: string(domain.InputConfirm)},
		{ID: "search", Type: domain.NodeTypeSearch},
		{ID: "cancelled", Type: domain.NodeTypeText},
		{ID: "path/to-file.x"},
	}

	out := graph.GenerateMermaid(nodes, "origin", nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `origin(("origin <br/> station"))`)
	assert.Contains(t, out, `filter[/"filter <br/> confirm"/]`)
	assert.Contains(t, out, `search[["search"]]`)
	assert.Contains(t, out, `cancelled["cancelled"]`)
	assert.Contains(t, out, `path_to_file_x["path/to-file.x"]`)
	assert.NotContains(t, out, "Overlay")
}

func TestGenerateMermaid_Edges(t *testing.T) {
	nodes := []domain.Node{
		{
			ID:   "return",
			Type: domain.NodeTypeQuestion,
			Transitions: []domain.Transition{
				{ToNodeID: "return_date", Condition: `input == "yes"`},
				{ToNodeID: "filter"},
			},
			OnSignal: map[string]string{domain.SignalCancel: "cancelled"},
		},
	}

	out := graph.GenerateMermaid(nodes, "", nil)

	assert.Contains(t, out, `return -- "input == 'yes'" --> return_date`)
	assert.Contains(t, out, "return --> filter")
	assert.Contains(t, out, "return -. ⚡ cancel .-> cancelled")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	nodes := flow.Builder().Nodes()
	require.NotEmpty(t, nodes)

	state := domain.NewState("5", flow.Origin)
	state.History = []string{flow.Origin, flow.Destination, flow.Origin}
	state.CurrentNodeID = flow.Destination

	out := graph.GenerateMermaid(nodes, flow.Entry, graph.NewOverlay(state))

	assert.Contains(t, out, "classDef visited")
	assert.Equal(t, 1, strings.Count(out, "class origin visited;"))
	assert.Contains(t, out, "class destination current;")
	assert.Nil(t, graph.NewOverlay(nil))
}
