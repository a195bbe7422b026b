package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aretw0/renfebot/internal/compiler"
	"github.com/aretw0/renfebot/internal/presentation/graph"
	"github.com/aretw0/renfebot/internal/validator"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/flow"
)

// ListSessions prints one line per stored conversation.
func ListSessions(ctx context.Context, app *App, w io.Writer) error {
	ids, err := app.Sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		printSystemMessage(w, "No active conversations.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAT\tSTEP\tSTATUS\tUPDATED")
	for _, id := range ids {
		state, err := app.Sessions.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(tw, "%s\t?\t%v\t\n", id, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, state.CurrentNodeID, state.Status, state.UpdatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

// InspectSession prints the stored state of a conversation as JSON, or as a
// Mermaid graph highlighting its path when asGraph is set.
func InspectSession(ctx context.Context, app *App, id string, asGraph bool, w io.Writer) error {
	state, err := app.Sessions.Load(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("session %q not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if asGraph {
		nodes, err := app.Engine.Inspect()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, graph.GenerateMermaid(nodes, flow.Entry, graph.NewOverlay(state)))
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// RemoveSession deletes a stored conversation.
func RemoveSession(ctx context.Context, app *App, id string, w io.Writer) error {
	if err := app.Sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	printSystemMessage(w, "Session '%s' removed.", id)
	return nil
}

// PrintLastRequest prints the snapshot /reintentar would reuse.
func PrintLastRequest(ctx context.Context, app *App, w io.Writer) error {
	req, err := app.Snapshot.Load(ctx)
	if errors.Is(err, domain.ErrNoLastRequest) {
		printSystemMessage(w, "No previous search.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load last request: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(req)
}

// PrintGraph prints the search conversation as a Mermaid flowchart.
func PrintGraph(w io.Writer) error {
	nodes := flow.Builder().Nodes()
	_, err := io.WriteString(w, graph.GenerateMermaid(nodes, flow.Entry, nil))
	return err
}

// ValidateFlow checks the search conversation for broken or unreachable steps.
func ValidateFlow(w io.Writer) error {
	loader, err := flow.New()
	if err != nil {
		return err
	}
	if err := validator.ValidateGraph(loader, compiler.NewParser(), flow.Entry); err != nil {
		return err
	}
	ids, _ := loader.ListNodes()
	printSystemMessage(w, "Flow is valid (%d steps).", len(ids))
	return nil
}
