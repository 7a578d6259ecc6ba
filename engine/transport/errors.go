package transport

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ErrBodyTooLarge is returned when a download exceeds the configured cap.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

const maxDetailLength = 300

// detailPaths are probed in order for an API-provided error description.
var detailPaths = []string{
	"message",
	"error",
	"errors.0.message",
	"errors.0",
	"description",
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Detail     string
	Body       []byte
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s %s returned %s", e.Method, e.URL, status)
	}
	return fmt.Sprintf("%s %s returned %s: %s", e.Method, e.URL, status, e.Detail)
}

// ExtractDetail returns a short human-readable error description from a response body.
func ExtractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		for _, path := range detailPaths {
			value := gjson.GetBytes(body, path)
			if value.Exists() && value.Type == gjson.String && strings.TrimSpace(value.String()) != "" {
				return truncate(strings.TrimSpace(value.String()))
			}
		}
		return ""
	}
	if !utf8.Valid(body) {
		return ""
	}
	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	if len(s) <= maxDetailLength {
		return s
	}
	cut := maxDetailLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
