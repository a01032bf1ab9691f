package schedule

import "context"

// Repository persists the full-season schedule.
type Repository interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}
