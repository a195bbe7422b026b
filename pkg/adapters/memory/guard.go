package memory

import (
	"context"
	"sync"

	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
)

// Guard implements ports.SearchGuard for a single process.
type Guard struct {
	mu     sync.Mutex
	holder *lease
}

type lease struct {
	guard *Guard
	owner string
	lost  chan struct{}
	once  sync.Once
}

// NewGuard creates a lowered flag.
func NewGuard() *Guard {
	return &Guard{}
}

// Begin raises the flag.
func (g *Guard) Begin(ctx context.Context, owner string) (ports.Lease, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.holder != nil {
		return nil, domain.ErrSearchInProgress
	}
	g.holder = &lease{
		guard: g,
		owner: owner,
		lost:  make(chan struct{}),
	}
	return g.holder, nil
}

// Cancel lowers the flag and notifies the holder.
func (g *Guard) Cancel(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.holder == nil {
		return false, nil
	}
	h := g.holder
	g.holder = nil
	h.once.Do(func() { close(h.lost) })
	return true, nil
}

// Active reports whether the flag is raised.
func (g *Guard) Active(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.holder != nil, nil
}

func (l *lease) Lost() <-chan struct{} {
	return l.lost
}

func (l *lease) Held(ctx context.Context) (bool, error) {
	l.guard.mu.Lock()
	defer l.guard.mu.Unlock()
	return l.guard.holder == l, nil
}

func (l *lease) Release(ctx context.Context) error {
	l.guard.mu.Lock()
	defer l.guard.mu.Unlock()
	if l.guard.holder == l {
		l.guard.holder = nil
	}
	return nil
}
