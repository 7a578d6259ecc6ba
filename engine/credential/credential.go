// Package credential resolves named API credential profiles and applies them
// to outbound requests.
package credential

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/compozy/chatwoot-nodes/pkg/config"
)

// DefaultProfile is the profile backed by the top-level chatwoot config section.
const DefaultProfile = "default"

// AccessTokenHeader carries the user or agent-bot token on every API call.
const AccessTokenHeader = "api_access_token"

var (
	ErrProfileNotFound = errors.New("credential profile not found")
	ErrMissingBaseURL  = errors.New("credentials are missing the base url")
)

// Credentials is one resolved credential profile.
type Credentials struct {
	URL         string
	AccessToken config.SensitiveString
}

// BaseURL returns URL without trailing slashes, or ErrMissingBaseURL when empty.
func (c Credentials) BaseURL() (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if base == "" {
		return "", ErrMissingBaseURL
	}
	return base, nil
}

// Authenticator returns the header authenticator for these credentials.
func (c Credentials) Authenticator() HeaderAuth {
	return HeaderAuth{Name: AccessTokenHeader, Value: c.AccessToken}
}

// Store yields credentials for a named profile.
type Store interface {
	Resolve(ctx context.Context, profile string) (Credentials, error)
}

// HeaderAuth sets a single header. Empty values are skipped.
type HeaderAuth struct {
	Name  string
	Value config.SensitiveString
}

func (h HeaderAuth) Apply(header http.Header) {
	if h.Name == "" || h.Value.Value() == "" {
		return
	}
	header.Set(h.Name, h.Value.Value())
}

// ConfigStore resolves profiles from the loaded configuration in ctx.
type ConfigStore struct{}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

func (s *ConfigStore) Resolve(ctx context.Context, profile string) (Credentials, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return Credentials{}, fmt.Errorf("%w: %s", ErrProfileNotFound, profileName(profile))
	}
	return resolveFromConfig(cfg.Chatwoot, profile)
}

func resolveFromConfig(cw config.ChatwootConfig, profile string) (Credentials, error) {
	name := profileName(profile)
	if name == DefaultProfile {
		if p, ok := cw.Profiles[DefaultProfile]; ok {
			return Credentials{URL: p.URL, AccessToken: p.AccessToken}, nil
		}
		return Credentials{URL: cw.URL, AccessToken: cw.AccessToken}, nil
	}
	p, ok := cw.Profiles[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return Credentials{URL: p.URL, AccessToken: p.AccessToken}, nil
}

func profileName(profile string) string {
	name := strings.TrimSpace(profile)
	if name == "" {
		return DefaultProfile
	}
	return name
}

// StaticStore serves credentials from memory.
type StaticStore map[string]Credentials

func (s StaticStore) Resolve(_ context.Context, profile string) (Credentials, error) {
	name := profileName(profile)
	creds, ok := s[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return creds, nil
}
