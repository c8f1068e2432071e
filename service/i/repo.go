package i

import (
	"context"

	"github.com/beka-birhanu/vinom-roads/domain"
)

// RetiredRepo defines the persistence operations for retired players.
type RetiredRepo interface {
	// SaveRetired stores the given records. Duplicates on retry are acceptable.
	SaveRetired(ctx context.Context, records []domain.RetiredPlayer) error

	// Retired returns up to maxItems records starting at offset start, ordered by
	// score descending, then play time ascending, then name ascending.
	Retired(ctx context.Context, start, maxItems int) ([]domain.RetiredPlayer, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
