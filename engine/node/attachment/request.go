package attachment

import (
	"fmt"
	"strings"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/engine/schema"
	"github.com/go-viper/mapstructure/v2"
)

// AdditionalFields are the optional message fields sent with the attachment.
// Empty strings count as absent. Private is nil when the key is absent.
type AdditionalFields struct {
	Content            string `mapstructure:"content"`
	MessageType        string `mapstructure:"messageType"`
	Private            *bool  `mapstructure:"private"`
	ContentType        string `mapstructure:"contentType"`
	ContentAttributes  any    `mapstructure:"contentAttributes"`
	TemplateParams     any    `mapstructure:"templateParams"`
	AttachmentMimeType string `mapstructure:"attachmentMimeType"`
}

// Request is the per-item relay request.
type Request struct {
	AccountID        int64            `mapstructure:"accountId"`
	ConversationID   int64            `mapstructure:"conversationId"`
	AttachmentURL    string           `mapstructure:"attachmentUrl"`
	FileName         string           `mapstructure:"fileName"`
	AdditionalFields AdditionalFields `mapstructure:"additionalFields"`
}

var positiveID = map[string]any{
	"type":    []string{"integer", "string"},
	"minimum": 1,
	"pattern": "^[1-9][0-9]*$",
}

var inputSchema = &schema.Schema{
	"type":     "object",
	"required": []string{"accountId", "conversationId", "attachmentUrl"},
	"properties": map[string]any{
		"accountId":      positiveID,
		"conversationId": positiveID,
		"attachmentUrl": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"fileName": map[string]any{"type": "string"},
		"additionalFields": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content":     map[string]any{"type": "string"},
				"messageType": map[string]any{"type": "string", "enum": []string{"", "incoming", "outgoing"}},
				"private": map[string]any{
					"enum": []any{true, false, "true", "false"},
				},
				"contentType": map[string]any{
					"type": "string",
					"enum": []string{"", "article", "cards", "form", "input_email", "input_select"},
				},
				"attachmentMimeType": map[string]any{"type": "string"},
			},
		},
	},
}

var compiledInput = inputSchema.MustCompile()

// DecodeRequest validates item parameters and decodes them into a Request.
func DecodeRequest(input core.Input) (*Request, error) {
	params := map[string]any(input)
	if params == nil {
		params = map[string]any{}
	}
	if err := compiledInput.Validate(params); err != nil {
		return nil, err
	}
	var req Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	req.AttachmentURL = strings.TrimSpace(req.AttachmentURL)
	return &req, nil
}
