package attachment

import (
	"context"

	"github.com/compozy/chatwoot-nodes/engine/credential"
	"github.com/compozy/chatwoot-nodes/engine/node"
)

const (
	NodeID         = "chatwoot.attachment"
	CredentialType = "chatwootApi"
)

var properties = []node.Property{
	{Name: "accountId", DisplayName: "Account ID", Type: "number", Required: true},
	{Name: "conversationId", DisplayName: "Conversation ID", Type: "number", Required: true},
	{
		Name:        "attachmentUrl",
		DisplayName: "Attachment URL",
		Type:        "string",
		Required:    true,
		Description: "URL of the file to download and attach",
	},
	{
		Name:        "fileName",
		DisplayName: "File Name",
		Type:        "string",
		Description: "Overrides the name taken from the download",
	},
	{Name: "additionalFields.content", DisplayName: "Content", Type: "string"},
	{
		Name:        "additionalFields.messageType",
		DisplayName: "Message Type",
		Type:        "options",
		Options:     []node.Option{{Name: "Incoming", Value: "incoming"}, {Name: "Outgoing", Value: "outgoing"}},
	},
	{Name: "additionalFields.private", DisplayName: "Private", Type: "boolean"},
	{
		Name:        "additionalFields.contentType",
		DisplayName: "Content Type",
		Type:        "options",
		Options: []node.Option{
			{Name: "Article", Value: "article"},
			{Name: "Cards", Value: "cards"},
			{Name: "Form", Value: "form"},
			{Name: "Input Email", Value: "input_email"},
			{Name: "Input Select", Value: "input_select"},
		},
	},
	{Name: "additionalFields.contentAttributes", DisplayName: labelContentAttributes, Type: "json"},
	{Name: "additionalFields.templateParams", DisplayName: labelTemplateParams, Type: "json"},
	{Name: "additionalFields.attachmentMimeType", DisplayName: "Attachment MIME Type", Type: "string"},
}

// Definition returns the attachment relay node.
func Definition(t Transport, store credential.Store) node.Definition {
	relay := NewRelay(t)
	return node.Definition{
		ID:   NodeID,
		Name: "Chatwoot Attachment",
		Description: "Download a file from a URL and send it to a conversation as a message attachment. " +
			"Not idempotent: every run creates a new message.",
		Credentials: []string{CredentialType},
		InputSchema: inputSchema,
		Properties:  properties,
		Execute: func(ctx context.Context, exec *node.Execution) ([]node.Result, error) {
			creds, err := store.Resolve(ctx, exec.Credential)
			if err != nil {
				return nil, node.Configuration(err, map[string]any{"credential": exec.Credential})
			}
			return relay.Process(ctx, exec.Items, creds, !exec.ContinueOnFail)
		},
	}
}
