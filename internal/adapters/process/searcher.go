package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/domain"
)

// EnvPrefix prefixes the environment variables carrying the request.
const EnvPrefix = "RENFEBOT_ARG_"

// Searcher implements ports.Searcher by running an external command.
//
// The request is passed twice: as RENFEBOT_ARG_<KEY> environment variables
// (one per snapshot key) and as JSON on stdin. Arguments are never
// interpolated into the command line. The command replies with JSON on
// stdout, either {"trains": [...]} or a bare array of trains.
type Searcher struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures the Searcher.
type Option func(*Searcher)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Searcher for cfg.
func New(cfg Config, opts ...Option) *Searcher {
	s := &Searcher{cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the command and decodes its output.
func (s *Searcher) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	var result domain.SearchResult

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	env, err := requestEnv(payload)
	if err != nil {
		return result, err
	}

	cmd := exec.CommandContext(ctx, s.cfg.Command, s.cfg.Args...)
	cmd.Dir = s.cfg.Dir
	cmd.Env = append(cmd.Environ(), env...)
	for k, v := range s.cfg.Environment {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdin = bytes.NewReader(payload)
	// Don't hang on grandchildren holding the pipes after a kill.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	s.logger.DebugContext(ctx, "running search command", "command", s.cfg.Command, "args", s.cfg.Args)
	err = cmd.Run()
	s.logger.DebugContext(ctx, "search command finished", "duration", time.Since(start), "stderr", strings.TrimSpace(stderr.String()))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("search command interrupted: %w", ctxErr)
		}
		return result, fmt.Errorf("search command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return decodeResult(stdout.Bytes())
}

// requestEnv flattens the JSON request into sorted KEY=value pairs.
func requestEnv(payload []byte) ([]string, error) {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten request: %w", err)
	}

	env := make([]string, 0, len(fields))
	for k, v := range fields {
		env = append(env, fmt.Sprintf("%s%s=%v", EnvPrefix, strings.ToUpper(k), v))
	}
	sort.Strings(env)
	return env, nil
}

func decodeResult(out []byte) (domain.SearchResult, error) {
	var result domain.SearchResult

	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return result, nil
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &result.Trains); err != nil {
			return result, fmt.Errorf("failed to decode trains: %w", err)
		}
		return result, nil
	}

	if err := json.Unmarshal(trimmed, &result); err != nil {
		return result, fmt.Errorf("failed to decode search output: %w", errors.Join(err, fmt.Errorf("output: %.200s", trimmed)))
	}
	return result, nil
}
