package repository

import (
	"fmt"
	"net/url"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// AuthProvider resolves authentication methods for remote operations.
// Implementations should handle different URL schemes and credential
// sources.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed for this URL.
	// Returns an error if authentication cannot be resolved for the URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// BasicAuthProvider authenticates HTTP(S) remotes with a username/secret
// pair. For token-based hosts, pass the token as the secret.
type BasicAuthProvider struct {
	auth *githttp.BasicAuth
}

// NewBasicAuthProvider creates an AuthProvider from a username/secret pair.
func NewBasicAuthProvider(username, secret string) *BasicAuthProvider {
	return &BasicAuthProvider{
		auth: &githttp.BasicAuth{
			Username: username,
			Password: secret,
		},
	}
}

// Method returns basic auth for http(s) URLs and nil for local (file)
// remotes, which need no authentication.
func (p *BasicAuthProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https":
		return p.auth, nil
	case "", "file":
		return nil, nil
	default:
		return nil, fmt.Errorf("basic auth does not support %s:// remotes", parsed.Scheme)
	}
}
