package boxscore

import "context"

// Repository persists the basic and advanced boxscore tables.
//
// Load methods return an empty slice when the table does not exist yet;
// connectivity failures degrade to empty as well (logged by the backend).
// Save methods are idempotent per game: rows for game ids already present
// are deleted before the new rows are appended.
type Repository interface {
	LoadBasic(ctx context.Context) ([]Row, error)
	SaveBasic(ctx context.Context, rows []Row) error
	LoadAdvanced(ctx context.Context) ([]AdvancedRow, error)
	SaveAdvanced(ctx context.Context, rows []AdvancedRow) error
}
