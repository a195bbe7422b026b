package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
)

// logTimeLayout prefixes log names so that a reverse name sort is newest first.
const logTimeLayout = "20060102-150405"

// Archive implements ports.LogArchive over a directory of per-search logs
// named <timestamp>_<username>.log.
type Archive struct {
	Dir string
	now func() time.Time
}

// NewArchive creates an archive in dir. If dir is empty, it defaults to "logs".
func NewArchive(dir string) *Archive {
	if dir == "" {
		dir = "logs"
	}
	return &Archive{Dir: dir, now: time.Now}
}

// Create opens a new log file for username.
func (a *Archive) Create(ctx context.Context, username string) (io.WriteCloser, string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to ensure log directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.log", a.now().Format(logTimeLayout), safeName(username))
	path := filepath.Join(a.Dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create log file: %w", err)
	}
	return f, path, nil
}

// Latest returns the newest log created for exactly username.
func (a *Archive) Latest(ctx context.Context, username string) (string, error) {
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNoLogs
		}
		return "", fmt.Errorf("failed to list logs: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && ownedBy(e.Name(), username) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", domain.ErrNoLogs
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return filepath.Join(a.Dir, names[0]), nil
}

// ownedBy reports whether name is a <timestamp>_<username>.log entry.
func ownedBy(name, username string) bool {
	stamp, rest, ok := strings.Cut(name, "_")
	if !ok || rest != safeName(username)+".log" {
		return false
	}
	_, err := time.Parse(logTimeLayout, stamp)
	return err == nil
}

// safeName keeps usernames from escaping the log directory.
func safeName(username string) string {
	if username == "" {
		return "anonymous"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, username)
}
