package config

import (
	"http-engine/application/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "httpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	args := cfg.RequestArgs("http://example.com/", http.GET)
	assert.Equal(t, http.NewRequestArgs("http://example.com/", http.GET), args)

	opts := cfg.SocketOptions()
	assert.Equal(t, 100*time.Millisecond, opts.PollInterval)
	assert.Equal(t, uint(64*1024), opts.MaxLineLength)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
request:
  connect_timeout: 5s
  follow_redirects: false
  max_redirects: 2
  user_agent: custom/2.0
tls:
  insecure_skip_verify: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Request.ConnectTimeout)
	assert.Equal(t, http.DefaultTransferTimeout, cfg.Request.TransferTimeout)
	assert.False(t, cfg.Request.FollowRedirects)
	assert.Equal(t, 2, cfg.Request.MaxRedirects)
	assert.True(t, cfg.Request.Compress)
	assert.Equal(t, "custom/2.0", cfg.Request.UserAgent)
	assert.True(t, cfg.TLS.InsecureSkipVerify)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "request:\n  max_redirects: 2\n")
	t.Setenv("HTTPC_MAX_REDIRECTS", "7")
	t.Setenv("HTTPC_TRANSFER_TIMEOUT", "1m")
	t.Setenv("HTTPC_POLL_INTERVAL", "10ms")
	t.Setenv("HTTPC_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Request.MaxRedirects)
	assert.Equal(t, time.Minute, cfg.Request.TransferTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.Socket.PollInterval)
	assert.True(t, cfg.TLS.InsecureSkipVerify)
}

func TestLoadIgnoresUnprefixedEnv(t *testing.T) {
	t.Setenv("INSECURE", "true")
	t.Setenv("INSECURE_SKIP_VERIFY", "true")
	t.Setenv("MAX_REDIRECTS", "0")
	t.Setenv("COMPRESS", "false")
	t.Setenv("USER_AGENT", "leaked/1.0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "request: ["))
		assert.Error(t, err)
	})

	t.Run("malformed env", func(t *testing.T) {
		t.Setenv("HTTPC_CONNECT_TIMEOUT", "soon")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("negative redirects", func(t *testing.T) {
		_, err := Load(writeFile(t, "request:\n  max_redirects: -1\n"))
		assert.ErrorContains(t, err, "max_redirects")
	})

	t.Run("zero poll interval", func(t *testing.T) {
		_, err := Load(writeFile(t, "socket:\n  poll_interval: 0s\n"))
		assert.ErrorContains(t, err, "poll_interval")
	})
}
