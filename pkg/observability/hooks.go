package observability

import (
	"context"

	"github.com/aretw0/renfebot/pkg/domain"
)

// Combine merges hooks so that every non-nil callback runs, in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var nodeEnter, nodeLeave []func(context.Context, *domain.NodeEvent)
	var searchStart, searchFinish []func(context.Context, *domain.SearchEvent)
	for _, h := range all {
		if h.OnNodeEnter != nil {
			nodeEnter = append(nodeEnter, h.OnNodeEnter)
		}
		if h.OnNodeLeave != nil {
			nodeLeave = append(nodeLeave, h.OnNodeLeave)
		}
		if h.OnSearchStart != nil {
			searchStart = append(searchStart, h.OnSearchStart)
		}
		if h.OnSearchFinish != nil {
			searchFinish = append(searchFinish, h.OnSearchFinish)
		}
	}

	return domain.LifecycleHooks{
		OnNodeEnter:    fanNode(nodeEnter),
		OnNodeLeave:    fanNode(nodeLeave),
		OnSearchStart:  fanSearch(searchStart),
		OnSearchFinish: fanSearch(searchFinish),
	}
}

func fanNode(fns []func(context.Context, *domain.NodeEvent)) func(context.Context, *domain.NodeEvent) {
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, e *domain.NodeEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}

func fanSearch(fns []func(context.Context, *domain.SearchEvent)) func(context.Context, *domain.SearchEvent) {
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, e *domain.SearchEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
