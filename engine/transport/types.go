package transport

import (
	"net/http"
	"net/url"
)

// Response is a fully buffered HTTP response. Body is never text-decoded.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Authenticator decorates outbound request headers with credentials.
type Authenticator interface {
	Apply(header http.Header)
}

// Request describes a JSON API call.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	// Body is JSON encoded when non-nil.
	Body any
	Auth Authenticator
}
