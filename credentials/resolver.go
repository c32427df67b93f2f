package credentials

import (
	"context"
	"errors"
	"fmt"
)

// Resolution is the discriminated result of a credential resolution.
// Exactly one of the following holds:
//   - Cancelled is true: the user aborted; Credentials is zero.
//   - Cancelled is false: Credentials is populated. PersistErr may
//     additionally carry a non-fatal persistence failure; the
//     credentials themselves are still usable.
type Resolution struct {
	Cancelled   bool
	Credentials Credentials
	PersistErr  error
}

// Resolve obtains credentials for a remote repository.
//
// When preferStored is set and the store holds a readable credential
// file, its contents are returned and the prompt is never invoked. An
// unreadable file is surfaced as ErrUnreadable (distinct from absence).
// Otherwise the prompt is asked; a cancel returns a cancelled Resolution
// with no side effects. When preferStored is set, freshly prompted
// credentials are persisted (at most one file write per resolution) and
// a persistence failure is reported through Resolution.PersistErr
// without failing the resolution.
func Resolve(ctx context.Context, store *Store, prompt Prompt, preferStored bool) (Resolution, error) {
	if store == nil {
		return Resolution{}, errors.New("credential store is required")
	}
	if prompt == nil {
		return Resolution{}, errors.New("credential prompt is required")
	}

	if preferStored && store.Exists() {
		c, err := store.Load()
		if err == nil {
			return Resolution{Credentials: c}, nil
		}
		// Exists raced with removal: fall through to the prompt.
		// Anything else means the file is there but unusable.
		if !errors.Is(err, ErrNotFound) {
			return Resolution{}, err
		}
	}

	c, ok, err := prompt.PromptCredentials(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("credential prompt failed: %w", err)
	}
	if !ok {
		return Resolution{Cancelled: true}, nil
	}

	res := Resolution{Credentials: c}
	if preferStored {
		if err := store.Save(c); err != nil {
			res.PersistErr = fmt.Errorf("failed to persist credentials: %w", err)
		}
	}
	return res, nil
}
