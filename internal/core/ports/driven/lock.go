package driven

// ProcessLock guards the storage root against a second writer process.
type ProcessLock interface {
	// TryLock acquires the lock without blocking.
	// Returns false if another process holds it.
	TryLock() (bool, error)

	// Unlock releases the lock.
	Unlock() error

	// Path returns the lock file path.
	Path() string
}
