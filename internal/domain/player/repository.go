package player

import "context"

// Repository persists the season-scoped player index. Each season lives in
// its own table or file, selected by the season label ("2024-25").
type Repository interface {
	LoadSeason(ctx context.Context, season string) ([]Record, error)
	SaveSeason(ctx context.Context, season string, records []Record) error
}
