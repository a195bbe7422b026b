package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/renfebot/pkg/domain"
)

// LastInputFile is the snapshot file name the external scraper reads.
const LastInputFile = "last_input.json"

// LastRequest implements ports.LastRequestStore as a single JSON file.
type LastRequest struct {
	Path string
}

// NewLastRequest stores the snapshot as dir/last_input.json.
// If dir is empty, it defaults to "resources".
func NewLastRequest(dir string) *LastRequest {
	if dir == "" {
		dir = "resources"
	}
	return &LastRequest{Path: filepath.Join(dir, LastInputFile)}
}

// Save replaces the snapshot atomically.
func (l *LastRequest) Save(ctx context.Context, req domain.SearchRequest) error {
	data, err := json.MarshalIndent(req, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return writeAtomic(l.Path, data)
}

// Load reads the snapshot, or returns domain.ErrNoLastRequest.
func (l *LastRequest) Load(ctx context.Context) (domain.SearchRequest, error) {
	var req domain.SearchRequest

	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return req, domain.ErrNoLastRequest
		}
		return req, fmt.Errorf("failed to read last request: %w", err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to unmarshal last request: %w", err)
	}
	return req, nil
}
