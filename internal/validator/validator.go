package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/renfebot/internal/compiler"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
)

// ValidateGraph checks for broken links, unreachable steps and questions
// whose answers go nowhere, starting from startNodeID.
func ValidateGraph(loader ports.GraphLoader, parser *compiler.Parser, startNodeID string) error {
	visited := make(map[string]bool)
	queue := []string{startNodeID}
	searches := 0

	var problems []string
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		raw, err := loader.GetNode(currentID)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Missing node or load error: '%s'", currentID))
			continue
		}
		node, err := parser.Parse(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Invalid node '%s': %v", currentID, err))
			continue
		}

		if node.IsQuestion() && node.SaveTo == "" {
			problems = append(problems, fmt.Sprintf("Question '%s' does not save its answer", node.ID))
		}
		if node.Type == domain.NodeTypeSearch {
			searches++
		}

		for _, t := range node.Transitions {
			if t.ToNodeID == "" {
				continue
			}
			if !visited[t.ToNodeID] {
				queue = append(queue, t.ToNodeID)
			}
		}
		for _, target := range node.OnSignal {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	if searches == 0 {
		problems = append(problems, "No search step is reachable")
	}

	ids, err := loader.ListNodes()
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !visited[id] {
			problems = append(problems, fmt.Sprintf("Unreachable node: '%s'", id))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}
