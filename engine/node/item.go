package node

import "github.com/compozy/chatwoot-nodes/engine/core"

// Item is one unit of work handed to a node by the host.
type Item struct {
	JSON core.Input `json:"json"`
}

// PairedItem links a result back to the input item that produced it.
type PairedItem struct {
	Item int `json:"item"`
}

// Result is the per-item outcome. Exactly one of JSON and Error is set.
type Result struct {
	JSON       any         `json:"json,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
	PairedItem *PairedItem `json:"pairedItem,omitempty"`
}

// Failed reports whether the result carries an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Execution is a single node invocation over a batch of items.
type Execution struct {
	Items []Item
	// Credential names the credential profile; empty selects the default one.
	Credential     string
	ContinueOnFail bool
}
