package core

import (
	"errors"
	"fmt"
)

// Error is a coded error carrying structured details for callers and logs.
type Error struct {
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	err     error
}

// NewError wraps err with a canonical code and optional details.
func NewError(err error, code string, details map[string]any) *Error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &Error{
		Message: message,
		Code:    code,
		Details: details,
		err:     err,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// AsMap returns the message, code and details as a plain map for structured logs.
func (e *Error) AsMap() map[string]any {
	if e == nil {
		return nil
	}
	out := map[string]any{
		"message": e.Message,
	}
	if e.Code != "" {
		out["code"] = e.Code
	}
	if len(e.Details) > 0 {
		out["details"] = e.Details
	}
	return out
}

// ErrorCode returns the code of the first *Error in err's chain.
func ErrorCode(err error) string {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr.Code
	}
	return ""
}
