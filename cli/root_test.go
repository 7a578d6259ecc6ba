package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/compozy/chatwoot-nodes/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--env-file="))
	err := cmd.Execute()
	return out.String(), err
}

func TestSetupContext(t *testing.T) {
	t.Run("Should inject YAML configuration with CLI overrides into context", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "chatwoot-nodes.yaml", "http:\n  retry_count: 2\nchatwoot:\n  url: https://yaml.example.com\n")

		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{
			"--env-file=",
			"--config", cfgPath,
			"--chatwoot-url", "https://cli.example.com",
		}))

		require.NoError(t, setupContext(cmd))

		manager := config.ManagerFromContext(cmd.Context())
		require.NotNil(t, manager)
		cfg := manager.Get()
		assert.Equal(t, 2, cfg.HTTP.RetryCount)
		assert.Equal(t, "https://cli.example.com", cfg.Chatwoot.URL)
		assert.Equal(t, config.SourceCLI, manager.Service.GetSource("chatwoot.url"))
		assert.Equal(t, config.SourceYAML, manager.Service.GetSource("http.retry_count"))
	})
	t.Run("Should reject an env file outside the working directory", func(t *testing.T) {
		cmd := RootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--env-file", "../../outside.env"}))
		err := setupContext(cmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the working directory")
	})
}

func TestParseItems(t *testing.T) {
	t.Run("Should accept bare parameters and json-wrapped entries", func(t *testing.T) {
		items, err := parseItems([]byte(`
- accountId: 1
  conversationId: 2
- json:
    accountId: 3
    conversationId: 4
`))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.EqualValues(t, 1, items[0].JSON["accountId"])
		assert.EqualValues(t, 3, items[1].JSON["accountId"])
	})
	t.Run("Should parse JSON item lists", func(t *testing.T) {
		items, err := parseItems([]byte(`[{"attachmentUrl":"https://x/a.png"}]`))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "https://x/a.png", items[0].JSON["attachmentUrl"])
	})
	t.Run("Should fail when the document is not a list", func(t *testing.T) {
		_, err := parseItems([]byte("accountId: 1\n"))
		assert.Error(t, err)
	})
	t.Run("Should read items from stdin", func(t *testing.T) {
		items, err := readItems("-", bytes.NewBufferString("- content: hi\n"))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "hi", items[0].JSON["content"])
	})
}

func TestWriteOutput(t *testing.T) {
	t.Run("Should redact secrets in YAML output", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeOutput(&buf, OutputFormatYAML, map[string]any{"token": config.SensitiveString("secret")})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "[REDACTED]")
		assert.NotContains(t, buf.String(), "secret")
	})
	t.Run("Should reject unknown formats", func(t *testing.T) {
		err := writeOutput(io.Discard, "xml", map[string]any{})
		assert.Error(t, err)
	})
}

func TestFlattenConfig(t *testing.T) {
	t.Run("Should flatten nested sections and profiles with redaction", func(t *testing.T) {
		cfg := config.Default()
		cfg.Chatwoot.AccessToken = "secret"
		cfg.Chatwoot.Profiles = map[string]config.ProfileConfig{
			"staging": {URL: "https://staging.example.com", AccessToken: "other"},
		}
		flat := flattenConfig(cfg)
		assert.Equal(t, "info", flat["runtime.log_level"])
		assert.Equal(t, "1m0s", flat["http.timeout"])
		assert.Equal(t, "[REDACTED]", flat["chatwoot.access_token"])
		assert.Equal(t, "https://staging.example.com", flat["chatwoot.profiles.staging.url"])
		assert.Equal(t, "[REDACTED]", flat["chatwoot.profiles.staging.access_token"])
	})
}

func TestNodesCmd(t *testing.T) {
	t.Run("Should list the registered nodes as JSON", func(t *testing.T) {
		cfgPath := writeFile(t, t.TempDir(), "chatwoot-nodes.yaml", "")
		out, err := executeRoot(t, "nodes", "--format", "json", "--config", cfgPath)
		require.NoError(t, err)
		var summaries []nodeSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summaries))
		ids := make([]string, 0, len(summaries))
		for _, s := range summaries {
			ids = append(ids, s.ID)
		}
		assert.Equal(t, []string{"chatwoot.api", "chatwoot.attachment"}, ids)
	})
}

func TestRunCmd(t *testing.T) {
	var gotToken string
	mux := http.NewServeMux()
	mux.HandleFunc("/files/note.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	})
	mux.HandleFunc("/api/v1/accounts/1/conversations/2/messages", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("api_access_token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":99}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "chatwoot-nodes.yaml",
		"chatwoot:\n  url: "+server.URL+"/\n  access_token: tok\n")

	t.Run("Should relay attachments and print paired results", func(t *testing.T) {
		itemsPath := writeFile(t, dir, "items.yaml",
			"- accountId: 1\n  conversationId: 2\n  attachmentUrl: "+server.URL+"/files/note.txt\n")
		out, err := executeRoot(t, "run", "chatwoot.attachment", "--items", itemsPath, "--config", cfgPath)
		require.NoError(t, err)
		var results []node.Result
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 1)
		assert.False(t, results[0].Failed())
		assert.Equal(t, map[string]any{"id": float64(99)}, results[0].JSON)
		assert.Equal(t, 0, results[0].PairedItem.Item)
		assert.Equal(t, "tok", gotToken)
	})
	t.Run("Should report item failures with continue-on-fail", func(t *testing.T) {
		itemsPath := writeFile(t, dir, "failing.yaml",
			"- accountId: 1\n  conversationId: 2\n  attachmentUrl: "+server.URL+"/missing\n")
		out, err := executeRoot(t, "run", "chatwoot.attachment", "--items", itemsPath, "--config", cfgPath, "--continue-on-fail")
		require.NoError(t, err)
		var results []node.Result
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 1)
		assert.True(t, results[0].Failed())
		assert.Equal(t, node.CodeTransport, results[0].Code)
	})
	t.Run("Should abort on the first failure by default", func(t *testing.T) {
		itemsPath := writeFile(t, dir, "abort.yaml",
			"- accountId: 1\n  conversationId: 2\n  attachmentUrl: "+server.URL+"/missing\n")
		_, err := executeRoot(t, "run", "chatwoot.attachment", "--items", itemsPath, "--config", cfgPath)
		require.Error(t, err)
		var itemErr *node.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, 0, itemErr.Index)
	})
	t.Run("Should fail for unknown nodes", func(t *testing.T) {
		itemsPath := writeFile(t, dir, "empty.yaml", "[]\n")
		_, err := executeRoot(t, "run", "chatwoot.unknown", "--items", itemsPath, "--config", cfgPath)
		require.Error(t, err)
		assert.ErrorIs(t, err, node.ErrNodeNotFound)
	})
}
