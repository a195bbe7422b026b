package http

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/renfebot/pkg/runner"
)

// DefaultOutboxLimit is how many undelivered replies are kept per chat.
const DefaultOutboxLimit = 100

// Reply is a message the bot sent to a chat.
type Reply struct {
	ChatID   int64     `json:"chat_id"`
	Text     string    `json:"text,omitempty"`
	Document string    `json:"document,omitempty"`
	Caption  string    `json:"caption,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}

// Outbox is the Messenger of the HTTP transport. Replies wait in a per-chat
// queue until a client drains them, and are pushed to live subscribers.
type Outbox struct {
	mu      sync.Mutex
	pending map[int64][]Reply
	limit   int
	streams *StreamManager
}

var _ runner.Messenger = (*Outbox)(nil)

// NewOutbox creates an Outbox keeping at most limit replies per chat.
// The oldest replies are dropped first.
func NewOutbox(limit int) *Outbox {
	if limit <= 0 {
		limit = DefaultOutboxLimit
	}
	return &Outbox{
		pending: make(map[int64][]Reply),
		limit:   limit,
		streams: NewStreamManager(),
	}
}

// SendText queues a text reply.
func (o *Outbox) SendText(ctx context.Context, chatID int64, text string) error {
	o.push(Reply{ChatID: chatID, Text: text, SentAt: time.Now()})
	return nil
}

// SendDocument queues a reply pointing at a server-side file.
func (o *Outbox) SendDocument(ctx context.Context, chatID int64, path, caption string) error {
	o.push(Reply{ChatID: chatID, Document: path, Caption: caption, SentAt: time.Now()})
	return nil
}

// Drain returns and forgets the chat's queued replies.
func (o *Outbox) Drain(chatID int64) []Reply {
	o.mu.Lock()
	defer o.mu.Unlock()
	replies := o.pending[chatID]
	delete(o.pending, chatID)
	if replies == nil {
		return []Reply{}
	}
	return replies
}

// Subscribe streams the chat's replies as they are sent.
func (o *Outbox) Subscribe(chatID int64) (<-chan Reply, func()) {
	return o.streams.Subscribe(chatID)
}

func (o *Outbox) push(reply Reply) {
	o.mu.Lock()
	queue := append(o.pending[reply.ChatID], reply)
	if len(queue) > o.limit {
		queue = queue[len(queue)-o.limit:]
	}
	o.pending[reply.ChatID] = queue
	o.mu.Unlock()

	o.streams.Broadcast(reply)
}

// StreamManager handles active SSE connections per chat.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[int64]map[chan Reply]struct{}
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[int64]map[chan Reply]struct{}),
	}
}

// Subscribe registers a buffered channel for the chat and returns it with
// its cancel function.
func (sm *StreamManager) Subscribe(chatID int64) (<-chan Reply, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Reply, 10)
	if _, ok := sm.subscribers[chatID]; !ok {
		sm.subscribers[chatID] = make(map[chan Reply]struct{})
	}
	sm.subscribers[chatID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[chatID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, chatID)
				}
			}
		})
	}
}

// Broadcast delivers the reply to every subscriber of its chat.
// Slow subscribers miss replies rather than block the bot.
func (sm *StreamManager) Broadcast(reply Reply) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[reply.ChatID] {
		select {
		case ch <- reply:
		default:
		}
	}
}
