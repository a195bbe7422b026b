package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/renfebot/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// LastRequest implements ports.LastRequestStore on a single Redis key.
type LastRequest struct {
	client *backend.Client
	key    string
}

// NewLastRequest stores the snapshot under prefix+"last_request".
func NewLastRequest(client *backend.Client, prefix string) *LastRequest {
	return &LastRequest{client: client, key: prefix + "last_request"}
}

func (l *LastRequest) Save(ctx context.Context, req domain.SearchRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := l.client.Set(ctx, l.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save last request: %w", err)
	}
	return nil
}

func (l *LastRequest) Load(ctx context.Context) (domain.SearchRequest, error) {
	var req domain.SearchRequest
	val, err := l.client.Get(ctx, l.key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return req, domain.ErrNoLastRequest
		}
		return req, fmt.Errorf("failed to load last request: %w", err)
	}
	if err := json.Unmarshal(val, &req); err != nil {
		return req, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return req, nil
}
