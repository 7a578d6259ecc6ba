package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	sourceType SourceType
}

func (m *mockSource) Load() (map[string]any, error) {
	return m.data, nil
}

func (m *mockSource) Type() SourceType {
	return m.sourceType
}

func (m *mockSource) Close() error {
	return nil
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources provided", func(t *testing.T) {
		cfg, err := NewService().Load(t.Context())

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
		assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, 5, cfg.HTTP.MaxRedirects)
		assert.Equal(t, int64(25*1024*1024), cfg.HTTP.MaxDownloadBytes)
		assert.Equal(t, 0, cfg.HTTP.RetryCount)
	})

	t.Run("Should apply sources in precedence order", func(t *testing.T) {
		yamlSource := &mockSource{
			data: map[string]any{
				"http": map[string]any{
					"timeout":       "15s",
					"max_redirects": 2,
				},
			},
			sourceType: SourceYAML,
		}
		cliSource := &mockSource{
			data: map[string]any{
				"http": map[string]any{"timeout": "5s"},
			},
			sourceType: SourceCLI,
		}

		cfg, err := NewService().Load(t.Context(), yamlSource, cliSource)

		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, 2, cfg.HTTP.MaxRedirects)
	})

	t.Run("Should load credential profiles from YAML file", func(t *testing.T) {
		path := writeYAML(t, `
chatwoot:
  url: https://app.chatwoot.test
  access_token: default-token
  profiles:
    support:
      url: https://support.chatwoot.test/
      access_token: support-token
`)

		cfg, err := NewService().Load(t.Context(), NewYAMLProvider(path))

		require.NoError(t, err)
		assert.Equal(t, "https://app.chatwoot.test", cfg.Chatwoot.URL)
		assert.Equal(t, "default-token", cfg.Chatwoot.AccessToken.Value())
		require.Contains(t, cfg.Chatwoot.Profiles, "support")
		assert.Equal(t, "https://support.chatwoot.test/", cfg.Chatwoot.Profiles["support"].URL)
		assert.Equal(t, "support-token", cfg.Chatwoot.Profiles["support"].AccessToken.Value())
	})

	t.Run("Should ignore a missing YAML file", func(t *testing.T) {
		cfg, err := NewService().Load(t.Context(), NewYAMLProvider(filepath.Join(t.TempDir(), "absent.yaml")))

		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
	})

	t.Run("Should override file values with environment variables", func(t *testing.T) {
		path := writeYAML(t, "chatwoot:\n  url: https://file.chatwoot.test\n")
		t.Setenv("CHATWOOT_URL", "https://env.chatwoot.test")
		t.Setenv("HTTP_TIMEOUT", "3s")

		cfg, err := NewService().Load(t.Context(), NewYAMLProvider(path), NewEnvProvider())

		require.NoError(t, err)
		assert.Equal(t, "https://env.chatwoot.test", cfg.Chatwoot.URL)
		assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	})

	t.Run("Should let CLI flags override environment variables", func(t *testing.T) {
		t.Setenv("RUNTIME_LOG_LEVEL", "warn")

		service := NewService()
		cfg, err := service.Load(t.Context(), NewCLIProvider(map[string]any{"runtime.log_level": "debug"}))

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.Equal(t, SourceCLI, service.GetSource("runtime.log_level"))
	})

	t.Run("Should track the source of each key", func(t *testing.T) {
		t.Setenv("HTTP_USER_AGENT", "relay-test")

		service := NewService()
		_, err := service.Load(t.Context())

		require.NoError(t, err)
		assert.Equal(t, SourceEnv, service.GetSource("http.user_agent"))
		assert.Equal(t, SourceDefault, service.GetSource("http.timeout"))
	})

	t.Run("Should reject an unknown log level", func(t *testing.T) {
		source := &mockSource{
			data:       map[string]any{"runtime": map[string]any{"log_level": "chatty"}},
			sourceType: SourceYAML,
		}

		_, err := NewService().Load(t.Context(), source)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("Should reject an invalid profile name", func(t *testing.T) {
		path := writeYAML(t, "chatwoot:\n  profiles:\n    Bad Name:\n      url: https://x.test\n")

		_, err := NewService().Load(t.Context(), NewYAMLProvider(path))

		require.Error(t, err)
	})

	t.Run("Should require a url on every profile", func(t *testing.T) {
		path := writeYAML(t, "chatwoot:\n  profiles:\n    support:\n      access_token: abc\n")

		_, err := NewService().Load(t.Context(), NewYAMLProvider(path))

		require.Error(t, err)
		assert.Contains(t, err.Error(), `chatwoot profile "support"`)
	})
}

func TestManager(t *testing.T) {
	t.Run("Should expose loaded configuration through context", func(t *testing.T) {
		manager := NewManager(NewService())
		_, err := manager.Load(t.Context(), NewCLIProvider(map[string]any{"http.max_redirects": 1}))
		require.NoError(t, err)

		ctx := ContextWithManager(t.Context(), manager)

		assert.Equal(t, 1, FromContext(ctx).HTTP.MaxRedirects)
		assert.Same(t, manager, ManagerFromContext(ctx))
	})

	t.Run("Should fall back to defaults without a manager in context", func(t *testing.T) {
		cfg := FromContext(t.Context())

		require.NotNil(t, cfg)
		assert.NotZero(t, cfg.HTTP.Timeout)
	})

	t.Run("Should reload from the same sources", func(t *testing.T) {
		path := writeYAML(t, "http:\n  retry_count: 1\n")
		manager := NewManager(nil)
		_, err := manager.Load(t.Context(), NewYAMLProvider(path))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("http:\n  retry_count: 2\n"), 0o600))

		cfg, err := manager.Reload(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 2, cfg.HTTP.RetryCount)
		assert.Equal(t, 2, manager.Get().HTTP.RetryCount)
		assert.NoError(t, manager.Close())
	})
}
