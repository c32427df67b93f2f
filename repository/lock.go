package repository

// lockFileName is the advisory lock file kept in the metadata folder.
// It enforces the single-writer invariant: at most one export/commit
// cycle may run against a working tree at a time, across processes.
const lockFileName = "modelrepo.lock"

// Lock acquires the handle's writer lock without blocking. It returns
// ErrLocked when another writer already holds it.
func (r *Repo) Lock() error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return WrapError(err, "failed to acquire repository lock")
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the writer lock. Unlocking an unheld lock is a no-op.
func (r *Repo) Unlock() error {
	if err := r.lock.Unlock(); err != nil {
		return WrapError(err, "failed to release repository lock")
	}
	return nil
}
