package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"server_url":            "https://notes.example",
		"state_path":            "/var/lib/sn.db",
		"online_check_interval": "15s",
	})
	partial := writeTempJSON(t, dir, "partial.json", map[string]any{
		"state_path": "only.db",
	})

	t.Run("loads every field", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "https://notes.example", cfg.ServerURL)
		assert.Equal(t, "/var/lib/sn.db", cfg.StatePath)
		assert.Equal(t, 15*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
		assert.Equal(t, "only.db", cfg.StatePath)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServerURL: "keep"}
		parseJson(cfg)
		assert.Equal(t, "keep", cfg.ServerURL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
