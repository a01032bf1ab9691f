package team

import "context"

// Repository persists the league team directory.
type Repository interface {
	Load(ctx context.Context) ([]Team, error)
	Save(ctx context.Context, teams []Team) error
}
