package openapi

import (
	_ "embed"

	"github.com/compozy/chatwoot-nodes/engine/node"
)

//go:embed chatwoot.yaml
var chatwootDocument []byte

// DefaultTransforms normalize the resource and operation names of the bundled
// document.
func DefaultTransforms() []Transform {
	return []Transform{
		RenameResource("Conversations", "Conversation"),
		RenameResource("Messages", "Message"),
		RenameResource("Contacts", "Contact"),
		RenameResource("Inboxes", "Inbox"),
		RenameResource("Agents", "Agent"),
		RenameResource("Canned Responses", "Canned Response"),
		RenameOperation("conversation.conversationlist", "List"),
		RenameOperation("conversation.newconversation", "Create"),
		RenameOperation("conversation.conversationdetails", "Get"),
		RenameOperation("conversation.togglestatusofaconversation", "Toggle Status"),
		RenameOperation("message.list-all-messages", "List"),
		RenameOperation("message.create-a-new-message-in-a-conversation", "Create"),
		RenameOperation("message.delete-a-message", "Delete"),
		RenameOperation("contact.contactlist", "List"),
		RenameOperation("contact.contactcreate", "Create"),
		RenameOperation("contact.contactdetails", "Get"),
		RenameOperation("contact.contactupdate", "Update"),
		RenameOperation("contact.contactsearch", "Search"),
		RenameOperation("inbox.listallinboxes", "List"),
		RenameOperation("agent.get-account-agents", "List"),
		RenameOperation("canned-response.get-canned-responses", "List"),
		TweakProperty("", "account_id", func(p *node.Property) {
			p.Name = "accountId"
			p.DisplayName = "Account ID"
		}),
		TweakProperty("", "conversation_id", func(p *node.Property) {
			p.Name = "conversationId"
			p.DisplayName = "Conversation ID"
		}),
		TweakProperty("message.create", "private", func(p *node.Property) {
			p.Default = false
		}),
	}
}

// Default parses the bundled messaging API document and applies
// DefaultTransforms.
func Default() (*Catalog, error) {
	catalog, err := Parse(chatwootDocument)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(DefaultTransforms()...)
}
