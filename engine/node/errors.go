package node

import (
	"errors"
	"fmt"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/engine/transport"
)

// Canonical error codes shared by every node.
const (
	CodeConfiguration = "ConfigurationError"
	CodeValidation    = "ValidationError"
	CodeTransport     = "TransportError"
	CodeUpstream      = "UpstreamError"
)

func newError(code string, err error, details map[string]any) *core.Error {
	return core.NewError(err, code, details)
}

// Configuration reports missing or unusable credentials. Always batch-fatal.
func Configuration(err error, details map[string]any) *core.Error {
	return newError(CodeConfiguration, err, details)
}

// Validation reports item parameters that cannot be used as given.
func Validation(err error, details map[string]any) *core.Error {
	return newError(CodeValidation, err, details)
}

// Transport reports network failures and unsuccessful source downloads.
func Transport(err error, details map[string]any) *core.Error {
	return newError(CodeTransport, err, details)
}

// Upstream reports a non-success answer from the messaging API.
func Upstream(err error, details map[string]any) *core.Error {
	return newError(CodeUpstream, err, details)
}

// ItemError aborts a batch in fail-fast mode.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ErrorMessage returns the message emitted in a failed result.
func ErrorMessage(err error) string {
	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr.Message != "" {
		return coreErr.Message
	}
	return err.Error()
}

// ErrorFields returns the coded error in err's chain as structured log fields.
func ErrorFields(err error) map[string]any {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr.AsMap()
	}
	return map[string]any{"message": err.Error()}
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return core.ErrorCode(err) == CodeConfiguration
}

// APIError classifies a failed messaging API call. Non-success answers become
// upstream errors carrying the status and API detail; everything else is a
// transport error.
func APIError(err error, action string) *core.Error {
	wrapped := fmt.Errorf("failed to %s: %w", action, err)
	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) {
		details := map[string]any{"status": statusErr.StatusCode}
		if statusErr.Detail != "" {
			details["detail"] = statusErr.Detail
		}
		return Upstream(wrapped, details)
	}
	return Transport(wrapped, nil)
}
