// Package attachment implements the attachment relay node: it downloads a
// remote file and posts it to a conversation as a message attachment.
package attachment

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/chatwoot-nodes/engine/credential"
	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/compozy/chatwoot-nodes/engine/transport"
	"github.com/compozy/chatwoot-nodes/pkg/logger"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

// Transport is the HTTP surface the relay needs.
type Transport interface {
	Get(ctx context.Context, url string) (*transport.Response, error)
	PostMultipart(
		ctx context.Context,
		url string,
		form *transport.MultipartForm,
		auth transport.Authenticator,
	) (*transport.Response, error)
}

// Relay downloads attachments and submits them as conversation messages.
type Relay struct {
	transport Transport
}

func NewRelay(t Transport) *Relay {
	return &Relay{transport: t}
}

// MessagesURL is the message creation endpoint of a conversation.
func MessagesURL(baseURL string, accountID, conversationID int64) string {
	return fmt.Sprintf(
		"%s/api/v1/accounts/%d/conversations/%d/messages",
		strings.TrimRight(baseURL, "/"),
		accountID,
		conversationID,
	)
}

// Process relays every item sequentially. Credentials are checked once before
// any item is touched; a missing base URL fails the whole batch.
func (r *Relay) Process(
	ctx context.Context,
	items []node.Item,
	creds credential.Credentials,
	failFast bool,
) ([]node.Result, error) {
	baseURL, err := creds.BaseURL()
	if err != nil {
		return nil, node.Configuration(err, nil)
	}
	auth := creds.Authenticator()
	return node.Each(ctx, items, failFast, func(ctx context.Context, index int, item node.Item) (any, error) {
		return r.relay(ctx, baseURL, auth, index, item)
	})
}

func (r *Relay) relay(
	ctx context.Context,
	baseURL string,
	auth transport.Authenticator,
	index int,
	item node.Item,
) (any, error) {
	log := logger.FromContext(ctx).With("item_index", index)
	req, err := DecodeRequest(item.JSON)
	if err != nil {
		return nil, node.Validation(err, nil)
	}
	parsed, err := parseJSONFields(&req.AdditionalFields)
	if err != nil {
		return nil, node.Validation(err, nil)
	}

	download, err := r.transport.Get(ctx, req.AttachmentURL)
	if err != nil {
		return nil, node.Transport(
			fmt.Errorf("failed to download attachment: %w", err),
			map[string]any{"url": req.AttachmentURL},
		)
	}
	meta := deriveMetadata(req, download.Header)
	log.Debug(
		"Downloaded attachment",
		"url", req.AttachmentURL,
		"bytes", humanize.Bytes(uint64(len(download.Body))),
		"file_name", meta.FileName,
		"mime", meta.MIMEType,
	)
	if sniffed := sniffMIME(download.Body); !sniffed.Is(meta.MIMEType) {
		log.Debug("Attachment content does not match declared type", "mime", meta.MIMEType, "sniffed", sniffed.String())
	}

	form, err := buildForm(&req.AdditionalFields, parsed, download.Body, meta)
	if err != nil {
		return nil, node.Validation(err, nil)
	}
	endpoint := MessagesURL(baseURL, req.AccountID, req.ConversationID)
	resp, err := r.transport.PostMultipart(ctx, endpoint, form, auth)
	if err != nil {
		return nil, node.APIError(err, "create message")
	}
	payload, err := node.DecodeJSON(resp.Body)
	if err != nil {
		return nil, node.Upstream(err, map[string]any{"status": resp.StatusCode})
	}
	log.Info(
		"Attachment relayed",
		"account_id", req.AccountID,
		"conversation_id", req.ConversationID,
		"message_id", gjson.GetBytes(resp.Body, "id").String(),
	)
	return payload, nil
}
