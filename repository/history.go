// History operations: commit log with filtering, plus conventional
// commit parsing so callers can render structured change summaries.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// LogFilter configures which commits Log returns.
type LogFilter struct {
	// Since limits the log to commits after the specified time.
	Since *time.Time

	// Until limits the log to commits before the specified time.
	Until *time.Time

	// Author filters commits whose author or committer name/email
	// contains this string.
	Author string

	// MaxCount limits the number of commits returned. 0 means no limit.
	MaxCount int
}

// CommitSummary is one history entry. Type, Scope, and Breaking are
// filled in when the message follows the conventional-commit format and
// are empty otherwise.
type CommitSummary struct {
	Hash     string
	Author   string
	Email    string
	When     time.Time
	Message  string
	Type     string
	Scope    string
	Breaking bool
}

// Subject returns the first line of the commit message.
func (c CommitSummary) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// Log returns the commit history of the current branch, newest first,
// with the given filters applied.
func (r *Repo) Log(ctx context.Context, f LogFilter) ([]CommitSummary, error) {
	logOpts := &git.LogOptions{
		Since: f.Since,
		Until: f.Until,
		Order: git.LogOrderCommitterTime,
	}

	iter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, WrapError(err, "failed to read commit log")
	}
	defer iter.Close()

	ccParser := parser.NewMachine(
		conventionalcommits.WithTypes(conventionalcommits.TypesConventional),
		conventionalcommits.WithBestEffort(),
	)

	var out []CommitSummary
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Author != "" && !matchesAuthor(c, f.Author) {
			return nil
		}
		out = append(out, summarize(c, ccParser))
		if f.MaxCount > 0 && len(out) >= f.MaxCount {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "failed to iterate commits")
	}
	return out, nil
}

func matchesAuthor(c *object.Commit, author string) bool {
	return strings.Contains(c.Author.Name, author) ||
		strings.Contains(c.Author.Email, author) ||
		strings.Contains(c.Committer.Name, author) ||
		strings.Contains(c.Committer.Email, author)
}

func summarize(c *object.Commit, ccParser conventionalcommits.Machine) CommitSummary {
	s := CommitSummary{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Author.When,
		Message: c.Message,
	}

	msg, err := ccParser.Parse([]byte(strings.TrimRight(c.Message, "\n")))
	if err != nil {
		return s
	}
	if cc, ok := msg.(*conventionalcommits.ConventionalCommit); ok {
		s.Type = cc.Type
		if cc.Scope != nil {
			s.Scope = *cc.Scope
		}
		s.Breaking = cc.IsBreakingChange()
	}
	return s
}
