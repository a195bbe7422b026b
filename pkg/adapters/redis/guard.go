package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Guard implements ports.SearchGuard with a single Redis key, so every
// replica of the bot sees the same flag.
//
// The holder refreshes the key's TTL while the search runs; if the process
// dies the flag expires on its own.
type Guard struct {
	client *backend.Client
	key    string
	ttl    time.Duration
	poll   time.Duration
}

// GuardOption configures the Guard.
type GuardOption func(*Guard)

// WithGuardTTL sets how long the flag survives without a heartbeat.
func WithGuardTTL(ttl time.Duration) GuardOption {
	return func(g *Guard) {
		g.ttl = ttl
	}
}

// WithPollInterval sets how often the holder checks (and refreshes) the flag.
func WithPollInterval(d time.Duration) GuardOption {
	return func(g *Guard) {
		g.poll = d
	}
}

// NewGuard creates a Guard storing the flag under prefix+"searching".
func NewGuard(client *backend.Client, prefix string, opts ...GuardOption) *Guard {
	g := &Guard{
		client: client,
		key:    prefix + "searching",
		ttl:    5 * time.Minute,
		poll:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Begin raises the flag with SET NX.
func (g *Guard) Begin(ctx context.Context, owner string) (ports.Lease, error) {
	token := fmt.Sprintf("%s:%d", owner, time.Now().UnixNano())
	ok, err := g.client.SetNX(ctx, g.key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error raising search flag: %w", err)
	}
	if !ok {
		return nil, domain.ErrSearchInProgress
	}

	l := &lease{
		guard: g,
		token: token,
		lost:  make(chan struct{}),
		stop:  make(chan struct{}),
	}
	go l.watch()
	return l, nil
}

// Cancel deletes the flag. The holder notices on its next poll.
func (g *Guard) Cancel(ctx context.Context) (bool, error) {
	n, err := g.client.Del(ctx, g.key).Result()
	if err != nil {
		return false, fmt.Errorf("redis error lowering search flag: %w", err)
	}
	return n > 0, nil
}

// Active reports whether the flag key exists.
func (g *Guard) Active(ctx context.Context) (bool, error) {
	n, err := g.client.Exists(ctx, g.key).Result()
	if err != nil {
		return false, fmt.Errorf("redis error reading search flag: %w", err)
	}
	return n > 0, nil
}

type lease struct {
	guard    *Guard
	token    string
	lost     chan struct{}
	stop     chan struct{}
	lostOnce sync.Once
	stopOnce sync.Once
}

func (l *lease) Lost() <-chan struct{} {
	return l.lost
}

// Held reads the key and compares it with the lease token.
func (l *lease) Held(ctx context.Context) (bool, error) {
	val, err := l.guard.client.Get(ctx, l.guard.key).Result()
	if errors.Is(err, backend.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis error reading search flag: %w", err)
	}
	return val == l.token, nil
}

func (l *lease) Release(ctx context.Context) error {
	l.stopOnce.Do(func() { close(l.stop) })
	if err := l.guard.client.Eval(ctx, releaseScript, []string{l.guard.key}, l.token).Err(); err != nil {
		return fmt.Errorf("redis error releasing search flag: %w", err)
	}
	return nil
}

// watch polls the key: a different value (or none) means the flag was
// lowered by someone else; the same value gets its TTL refreshed.
func (l *lease) watch() {
	ticker := time.NewTicker(l.guard.poll)
	defer ticker.Stop()

	ctx := context.Background()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			n, err := l.guard.client.Eval(ctx, refreshScript, []string{l.guard.key}, l.token, l.guard.ttl.Milliseconds()).Int()
			if err != nil {
				continue // transient, try again on the next tick
			}
			if n == 0 {
				l.lostOnce.Do(func() { close(l.lost) })
				return
			}
		}
	}
}
