package process_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/renfebot/internal/adapters/process"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.Searcher = (*process.Searcher)(nil)
	_ ports.Searcher = (*process.LogOnly)(nil)
)

func shell(t *testing.T, script string) process.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	return process.Config{Command: "sh", Args: []string{"-c", script}}
}

var request = domain.SearchRequest{
	OriginStation:      "MADRID (TODAS)",
	DestinationStation: "SEVILLA (TODAS)",
	DepartureDate:      "01-06-2026",
	MaxPrice:           45.5,
}

func TestSearcher_DecodesTrains(t *testing.T) {
	cfg := shell(t, `echo '{"trains":[{"service":"AVE 02100","direction":"ida","departure":"07:00","arrival":"09:32","duration_minutes":152,"price":43.1}]}'`)

	result, err := process.New(cfg).Search(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Trains, 1)
	assert.Equal(t, "AVE 02100", result.Trains[0].Service)
	assert.Equal(t, 152, result.Trains[0].DurationMinutes)
}

func TestSearcher_DecodesBareArray(t *testing.T) {
	cfg := shell(t, `echo '[{"service":"ALVIA","departure":"10:00"}]'`)

	result, err := process.New(cfg).Search(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Trains, 1)
}

func TestSearcher_EmptyOutput(t *testing.T) {
	result, err := process.New(shell(t, `true`)).Search(context.Background(), request)
	require.NoError(t, err)
	assert.Empty(t, result.Trains)
}

func TestSearcher_PassesRequestAsEnv(t *testing.T) {
	cfg := shell(t, `printf '[{"service":"%s|%s|%s"}]' "$RENFEBOT_ARG_ORIGIN_STATION" "$RENFEBOT_ARG_MAX_PRICE" "$RENFEBOT_ARG_RETURN"`)

	result, err := process.New(cfg).Search(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Trains, 1)
	assert.Equal(t, "MADRID (TODAS)|45.5|false", result.Trains[0].Service)
}

func TestSearcher_PassesRequestOnStdin(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "stdin.json")
	cfg := shell(t, `cat > "$OUT"`)
	cfg.Environment = map[string]string{"OUT": out}

	_, err := process.New(cfg).Search(context.Background(), request)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"origin_station":"MADRID (TODAS)","destination_station":"SEVILLA (TODAS)","departure_date":"01-06-2026","return":false,"max_price":45.5}`, string(data))
}

func TestSearcher_Failure(t *testing.T) {
	_, err := process.New(shell(t, `echo boom >&2; exit 3`)).Search(context.Background(), request)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSearcher_InvalidOutput(t *testing.T) {
	_, err := process.New(shell(t, `echo not json`)).Search(context.Background(), request)
	assert.Error(t, err)
}

func TestSearcher_Cancel(t *testing.T) {
	cfg := shell(t, `sleep 5`)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := process.New(cfg).Search(ctx, request)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestSearcher_Timeout(t *testing.T) {
	cfg := shell(t, `sleep 5`)
	cfg.Timeout = 100 * time.Millisecond

	_, err := process.New(cfg).Search(context.Background(), request)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogOnly(t *testing.T) {
	_, err := process.NewLogOnly(nil).Search(context.Background(), request)
	assert.ErrorIs(t, err, domain.ErrSearchDelegated)
}
