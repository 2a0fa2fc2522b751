package journal

import (
	"time"

	"github.com/starford/vigil/internal/models"
)

// Store defines the journal operations. Consumers should depend on this
// interface rather than the concrete *DB type to facilitate testing with
// fakes.
type Store interface {
	Append(ev models.Event) error
	Last() (models.Event, error)
	Recent(limit int) ([]models.Event, error)
	Summary() ([]NotebookSummary, error)
	Prune(olderThan time.Time) (int64, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
