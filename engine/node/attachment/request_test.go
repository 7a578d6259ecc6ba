package attachment

import (
	"testing"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	t.Run("Should decode typed fields", func(t *testing.T) {
		req, err := DecodeRequest(core.Input{
			"accountId":      1,
			"conversationId": "42",
			"attachmentUrl":  " https://x.test/a.png ",
			"fileName":       "a.png",
			"additionalFields": map[string]any{
				"content":           "hello",
				"messageType":       "outgoing",
				"private":           false,
				"contentAttributes": `{"a":1}`,
			},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), req.AccountID)
		assert.Equal(t, int64(42), req.ConversationID)
		assert.Equal(t, "https://x.test/a.png", req.AttachmentURL)
		assert.Equal(t, "hello", req.AdditionalFields.Content)
		require.NotNil(t, req.AdditionalFields.Private)
		assert.False(t, *req.AdditionalFields.Private)
		assert.Equal(t, `{"a":1}`, req.AdditionalFields.ContentAttributes)
	})

	t.Run("Should leave private nil when key is absent", func(t *testing.T) {
		req, err := DecodeRequest(core.Input{
			"accountId":        1,
			"conversationId":   2,
			"attachmentUrl":    "https://x.test/a.png",
			"additionalFields": map[string]any{},
		})

		require.NoError(t, err)
		assert.Nil(t, req.AdditionalFields.Private)
	})

	t.Run("Should accept private given as string", func(t *testing.T) {
		req, err := DecodeRequest(core.Input{
			"accountId":        1,
			"conversationId":   2,
			"attachmentUrl":    "https://x.test/a.png",
			"additionalFields": map[string]any{"private": "true"},
		})

		require.NoError(t, err)
		require.NotNil(t, req.AdditionalFields.Private)
		assert.True(t, *req.AdditionalFields.Private)
	})

	t.Run("Should reject missing attachment url", func(t *testing.T) {
		_, err := DecodeRequest(core.Input{"accountId": 1, "conversationId": 2})

		assert.Error(t, err)
	})

	t.Run("Should reject unknown message type", func(t *testing.T) {
		_, err := DecodeRequest(core.Input{
			"accountId":        1,
			"conversationId":   2,
			"attachmentUrl":    "https://x.test/a.png",
			"additionalFields": map[string]any{"messageType": "sideways"},
		})

		assert.Error(t, err)
	})

	t.Run("Should reject non-positive ids", func(t *testing.T) {
		_, err := DecodeRequest(core.Input{
			"accountId":      0,
			"conversationId": 2,
			"attachmentUrl":  "https://x.test/a.png",
		})

		assert.Error(t, err)
	})
}
