package declarative

import (
	"net/url"
	"testing"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/compozy/chatwoot-nodes/engine/node/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	op := &openapi.Operation{
		Method: "GET",
		Path:   "/api/v1/accounts/{account_id}/contacts/search",
		Properties: []node.Property{
			{Name: "accountId", WireName: "account_id", In: openapi.InPath, Required: true},
			{Name: "q", WireName: "q", In: openapi.InQuery, Required: true},
			{Name: "labels", WireName: "labels", In: openapi.InQuery},
			{Name: "page", WireName: "page", In: openapi.InQuery},
		},
	}

	t.Run("Should render path and query values", func(t *testing.T) {
		req, err := BuildRequest("https://x.test/", op, core.Input{
			"accountId": float64(3),
			"q":         "jane doe",
			"labels":    []any{"vip", "new"},
			"page":      "",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://x.test/api/v1/accounts/3/contacts/search", req.URL)
		assert.Equal(t, url.Values{"q": {"jane doe"}, "labels": {"vip", "new"}}, req.Query)
		assert.Nil(t, req.Body)
	})

	t.Run("Should escape path values", func(t *testing.T) {
		req, err := BuildRequest("https://x.test", op, core.Input{"accountId": "a/b", "q": "x"})

		require.NoError(t, err)
		assert.Equal(t, "https://x.test/api/v1/accounts/a%2Fb/contacts/search", req.URL)
	})

	t.Run("Should require required parameters", func(t *testing.T) {
		_, err := BuildRequest("https://x.test", op, core.Input{"accountId": 3})

		assert.ErrorIs(t, err, ErrMissingParameter)
	})
}
