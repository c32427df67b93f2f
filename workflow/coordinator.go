// Package workflow orchestrates the host-facing sync operations: open a
// model from a working tree, commit model changes, refresh from the
// remote, and publish. It wires the grafico projection, the commit
// coordinator, and credential resolution together the way the host
// actions drive them, with every capability injected: no singletons, no
// UI.
package workflow

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/archicontribs/modelrepo/credentials"
	"github.com/archicontribs/modelrepo/model"
	"github.com/archicontribs/modelrepo/prefs"
)

// credentialsFileName is the storage key for per-repository credential
// files inside the repository's metadata folder.
const credentialsFileName = "credentials"

// ErrExclusiveAccess is returned when an operation is attempted with a
// model instance that is not the one checked out for its working tree.
// Only one in-memory instance of a model may exist per backing path
// while export or import runs against it.
var ErrExclusiveAccess = errors.New("another model instance is open for this working tree")

// ErrUncommittedChanges is returned by Refresh when the working tree has
// pending changes. Pulling would clobber them; the caller must commit
// (or discard) first.
var ErrUncommittedChanges = errors.New("working tree has uncommitted changes")

// Coordinator drives the sync workflow. All operations are synchronous
// and must be serialized per repository handle by the caller; the
// coordinator adds the cross-process writer lock on top.
type Coordinator struct {
	prompt credentials.Prompt
	prefs  *prefs.Preferences
	log    *logrus.Logger

	mu   sync.Mutex
	open map[string]*model.Model // backing path -> checked-out instance
}

// New creates a Coordinator. prompt supplies interactive credential
// collection; p supplies the host defaults; log may be nil, in which
// case the standard logger is used.
func New(prompt credentials.Prompt, p *prefs.Preferences, log *logrus.Logger) *Coordinator {
	if p == nil {
		p = &prefs.Preferences{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Coordinator{
		prompt: prompt,
		prefs:  p,
		log:    log,
		open:   make(map[string]*model.Model),
	}
}

// Preferences returns the live preference set the coordinator consults
// and updates (last-used identity).
func (c *Coordinator) Preferences() *prefs.Preferences {
	return c.prefs
}

// checkout registers m as the single open instance for path, replacing
// any previously open instance (the replaced one is considered closed,
// mirroring how the host closes an already-open model before re-import).
func (c *Coordinator) checkout(path string, m *model.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open[c.key(path)] = m
}

// verifyCheckout ensures m is the instance checked out for path,
// registering it if the path has no instance yet.
func (c *Coordinator) verifyCheckout(path string, m *model.Model) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.key(path)
	current, ok := c.open[key]
	if !ok {
		c.open[key] = m
		return nil
	}
	if current != m {
		return ErrExclusiveAccess
	}
	return nil
}

// CloseModel releases the checked-out instance for the model's backing
// path. Closing a model that is not checked out is a no-op.
func (c *Coordinator) CloseModel(m *model.Model) {
	if m == nil || m.SourcePath == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.key(m.SourcePath)
	if c.open[key] == m {
		delete(c.open, key)
	}
}

func (c *Coordinator) key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
