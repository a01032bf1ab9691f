package prediction

import "context"

// Repository persists prediction runs. Save uses append-by-game-id semantics:
// re-running a slate replaces that slate's rows instead of duplicating them.
type Repository interface {
	Load(ctx context.Context) ([]Row, error)
	Save(ctx context.Context, rows []Row) error
}
