package process_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/renfebot/internal/adapters/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	cfg, err := process.ParseCommandLine("  python3 scraper.py --headless ")
	require.NoError(t, err)
	assert.Equal(t, "python3", cfg.Command)
	assert.Equal(t, []string{"scraper.py", "--headless"}, cfg.Args)

	_, err = process.ParseCommandLine("   ")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "search.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
command: python3
args: [scraper.py]
env:
  HEADLESS: "1"
timeout: 90s
`), 0o644))

	cfg, err := process.LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "python3", cfg.Command)
	assert.Equal(t, []string{"scraper.py"}, cfg.Args)
	assert.Equal(t, "1", cfg.Environment["HEADLESS"])
	assert.Equal(t, 90*time.Second, cfg.Timeout)

	jsonPath := filepath.Join(dir, "search.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"command":"node","args":["scrape.js"]}`), 0o644))

	cfg, err = process.LoadConfig(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "node", cfg.Command)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := process.LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("args: [x]\n"), 0o644))
	_, err = process.LoadConfig(empty)
	assert.Error(t, err)
}
