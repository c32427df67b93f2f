// Package credentials resolves the username/secret pair needed to reach
// a remote repository. Resolution prefers an encrypted per-repository
// store and falls back to an injected interactive prompt; a user cancel
// is a distinct terminal outcome, never an error. Secrets are never
// logged or rendered in plaintext.
package credentials

import "errors"

// ErrNotFound is returned by Store.Load when no credential file exists.
// Absence is a normal state, distinct from an unreadable file.
var ErrNotFound = errors.New("no stored credentials")

// ErrUnreadable is returned when a credential file exists but cannot be
// decrypted or parsed.
var ErrUnreadable = errors.New("stored credentials are unreadable")

// Credentials is a username/secret pair for a remote repository.
type Credentials struct {
	Username string
	Secret   string
}

// IsZero reports whether the pair is empty.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Secret == ""
}

// String renders the credentials with the secret redacted. This is the
// only textual form; the plaintext secret must never reach logs or UI.
func (c Credentials) String() string {
	if c.IsZero() {
		return "<no credentials>"
	}
	return c.Username + ":********"
}

// GoString mirrors String so %#v formatting cannot leak the secret either.
func (c Credentials) GoString() string {
	return "credentials.Credentials{" + c.String() + "}"
}
