package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsight/pointcast/internal/domain/prediction"
	"github.com/hoopsight/pointcast/internal/platform/logging"
	qb "github.com/hoopsight/pointcast/internal/platform/querybuilder"
)

const tablePredictions = "predictions"

type PredictionRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewPredictionRepository(db *sqlx.DB, logger *logging.Logger) *PredictionRepository {
	return &PredictionRepository{db: db, logger: logger}
}

func (r *PredictionRepository) Load(ctx context.Context) ([]prediction.Row, error) {
	query, args, err := qb.Select(
		"game_id",
		"game_date",
		"team_id",
		"opponent_team_id",
		"person_id",
		"player_name",
		"predicted_points",
		"run_id",
	).From(tablePredictions).
		OrderBy("game_date", "predicted_points DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load predictions query: %w", err)
	}

	var rows []predictionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WarnContext(ctx, "load predictions failed, continuing with empty set", "error", err)
		return nil, nil
	}

	out := make([]prediction.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Row{
			GameID:          row.GameID,
			GameDate:        row.GameDate,
			TeamID:          row.TeamID,
			OpponentTeamID:  row.OpponentTeamID,
			PersonID:        row.PersonID,
			PlayerName:      row.PlayerName,
			PredictedPoints: row.PredictedPoints,
			RunID:           row.RunID,
		})
	}
	return out, nil
}

func (r *PredictionRepository) Save(ctx context.Context, rows []prediction.Row) error {
	if len(rows) == 0 {
		r.logger.InfoContext(ctx, "no predictions to save")
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ids := uniqueGameIDs(rows, func(row prediction.Row) string { return row.GameID })
	if err := deleteByGameIDs(ctx, tx, tablePredictions, ids); err != nil {
		return err
	}

	stamp := stampTime()
	for _, row := range rows {
		insertModel := predictionInsertModel{
			GameID:           row.GameID,
			GameDate:         row.GameDate,
			TeamID:           row.TeamID,
			OpponentTeamID:   row.OpponentTeamID,
			PersonID:         row.PersonID,
			PlayerName:       row.PlayerName,
			PredictedPoints:  row.PredictedPoints,
			RunID:            row.RunID,
			ModificationDate: stamp,
		}
		query, args, err := qb.InsertModel(tablePredictions, insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.ErrorContext(ctx, "insert prediction row failed",
				"game_id", row.GameID, "person_id", row.PersonID, "error", err)
			return fmt.Errorf("insert prediction game=%s person=%d: %w", row.GameID, row.PersonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save predictions tx: %w", err)
	}
	r.logger.InfoContext(ctx, "saved predictions", "rows", len(rows), "games", len(ids))
	return nil
}

type predictionRow struct {
	GameID          string    `db:"game_id"`
	GameDate        time.Time `db:"game_date"`
	TeamID          int64     `db:"team_id"`
	OpponentTeamID  int64     `db:"opponent_team_id"`
	PersonID        int64     `db:"person_id"`
	PlayerName      string    `db:"player_name"`
	PredictedPoints float64   `db:"predicted_points"`
	RunID           string    `db:"run_id"`
}

type predictionInsertModel struct {
	GameID           string    `db:"game_id"`
	GameDate         time.Time `db:"game_date"`
	TeamID           int64     `db:"team_id"`
	OpponentTeamID   int64     `db:"opponent_team_id"`
	PersonID         int64     `db:"person_id"`
	PlayerName       string    `db:"player_name"`
	PredictedPoints  float64   `db:"predicted_points"`
	RunID            string    `db:"run_id"`
	ModificationDate time.Time `db:"modification_date"`
}
