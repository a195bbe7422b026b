package ports

import "context"

// SearchGuard is the single system-wide "a search is in progress" flag.
type SearchGuard interface {
	// Begin raises the flag on behalf of owner.
	// Returns domain.ErrSearchInProgress if it is already raised.
	Begin(ctx context.Context, owner string) (Lease, error)

	// Cancel lowers the flag regardless of who holds it.
	// Returns false if no search was in progress.
	Cancel(ctx context.Context) (bool, error)

	// Active reports whether the flag is raised.
	Active(ctx context.Context) (bool, error)
}

// Lease is held by the search that raised the flag.
type Lease interface {
	// Lost is closed once the flag is lowered by someone else (e.g. /cancelar).
	Lost() <-chan struct{}

	// Held reports whether the flag is still raised by this lease.
	// Unlike Lost it asks the backing store directly.
	Held(ctx context.Context) (bool, error)

	// Release lowers the flag if this lease still holds it.
	Release(ctx context.Context) error
}
