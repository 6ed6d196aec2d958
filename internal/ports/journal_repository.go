package ports

import (
	"context"

	"github.com/bft-labs/flashrestart/internal/domain"
)

// JournalRepository records the parameter-file edits made for a run.
type JournalRepository interface {
	// Load returns all recorded entries, oldest first.
	// Returns an empty slice and nil error if nothing was recorded yet.
	Load(ctx context.Context) ([]domain.JournalEntry, error)

	// Append persists one more entry. Implementations should write
	// atomically (e.g., temp file then rename).
	Append(ctx context.Context, e domain.JournalEntry) error
}
