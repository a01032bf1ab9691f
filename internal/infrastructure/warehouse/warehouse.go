// Package warehouse selects and bundles the persistence backend for a
// pipeline run. Two backends exist: postgres ("warehouse" mode) and flat CSV
// files under a data directory ("local" mode). Both implement the same
// repository contracts with the same save semantics.
package warehouse

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/prediction"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/domain/team"
	"github.com/hoopsight/pointcast/internal/infrastructure/warehouse/csvfile"
	"github.com/hoopsight/pointcast/internal/infrastructure/warehouse/postgres"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

const (
	ModeLocal     = "local"
	ModeWarehouse = "warehouse"
)

// ErrInvalidSaveMode is a configuration error and aborts the run.
var ErrInvalidSaveMode = errors.New("invalid save mode")

// Tables bundles one repository per persisted entity.
type Tables struct {
	Boxscores   boxscore.Repository
	Players     player.Repository
	Teams       team.Repository
	Schedule    schedule.Repository
	Predictions prediction.Repository
}

// Options carries whichever backend inputs the chosen mode needs.
type Options struct {
	Mode    string
	DB      *sqlx.DB // warehouse mode
	DataDir string   // local mode
	Logger  *logging.Logger
}

func Open(opts Options) (*Tables, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	switch opts.Mode {
	case ModeWarehouse:
		if opts.DB == nil {
			return nil, fmt.Errorf("warehouse mode requires a database connection")
		}
		return &Tables{
			Boxscores:   postgres.NewBoxscoreRepository(opts.DB, logger),
			Players:     postgres.NewPlayerRepository(opts.DB, logger),
			Teams:       postgres.NewTeamRepository(opts.DB, logger),
			Schedule:    postgres.NewScheduleRepository(opts.DB, logger),
			Predictions: postgres.NewPredictionRepository(opts.DB, logger),
		}, nil
	case ModeLocal:
		if opts.DataDir == "" {
			return nil, fmt.Errorf("local mode requires a data directory")
		}
		return &Tables{
			Boxscores:   csvfile.NewBoxscoreRepository(opts.DataDir, logger),
			Players:     csvfile.NewPlayerRepository(opts.DataDir, logger),
			Teams:       csvfile.NewTeamRepository(opts.DataDir, logger),
			Schedule:    csvfile.NewScheduleRepository(opts.DataDir, logger),
			Predictions: csvfile.NewPredictionRepository(opts.DataDir, logger),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSaveMode, opts.Mode)
	}
}
