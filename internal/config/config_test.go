package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("request_timeout: 3s\nbullets: [\"*\"]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.Timeout())
	require.Equal(t, []string{"*"}, cfg.Bullets)
	require.Equal(t, Default().MarkdownExtensions, cfg.MarkdownExtensions)
	require.Equal(t, Default().HistoryLimit, cfg.HistoryLimit)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestTimeout_FallsBackOnBadDuration(t *testing.T) {
	cfg := &Config{RequestTimeout: "soon"}
	require.Equal(t, 10*time.Second, cfg.Timeout())

	cfg.RequestTimeout = "-1s"
	require.Equal(t, 10*time.Second, cfg.Timeout())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.UserAgent = "custom/2.0"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
