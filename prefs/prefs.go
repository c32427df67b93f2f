// Package prefs holds the preference-backed defaults the sync workflow
// consumes but does not own: the last-used commit identity and the
// "store credentials" toggle. Preferences live in a YAML file under the
// user's config directory.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Preferences are the host-level defaults for the sync workflow.
type Preferences struct {
	// CommitName and CommitEmail are the last-used commit identity,
	// offered as defaults for the next commit.
	CommitName  string `yaml:"commit_name"`
	CommitEmail string `yaml:"commit_email"`

	// StoreCredentials enables the encrypted per-repository credential
	// files.
	StoreCredentials bool `yaml:"store_credentials"`
}

// DefaultPath returns the standard location of the preferences file.
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("modelrepo", "prefs.yaml"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve preferences path: %w", err)
	}
	return path, nil
}

// Load reads preferences from path. A missing file yields zero-value
// preferences, not an error.
func Load(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Preferences{}, nil
		}
		return nil, fmt.Errorf("failed to read preferences file %q: %w", path, err)
	}

	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preferences file %q: %w", path, err)
	}
	return &p, nil
}

// Save writes the preferences to path, creating parent directories as
// needed.
func (p *Preferences) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences file %q: %w", path, err)
	}
	return nil
}

// RememberIdentity caches the identity used for the last commit.
func (p *Preferences) RememberIdentity(name, email string) {
	p.CommitName = name
	p.CommitEmail = email
}
