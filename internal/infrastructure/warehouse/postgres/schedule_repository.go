package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/logging"
	qb "github.com/hoopsight/pointcast/internal/platform/querybuilder"
)

const tableSchedule = "schedule"

type ScheduleRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewScheduleRepository(db *sqlx.DB, logger *logging.Logger) *ScheduleRepository {
	return &ScheduleRepository{db: db, logger: logger}
}

func (r *ScheduleRepository) Load(ctx context.Context) ([]schedule.Entry, error) {
	query, args, err := qb.Select(
		"game_id",
		"game_date",
		"home_team_id",
		"away_team_id",
		"home_tricode",
		"away_tricode",
		"status",
		"status_text",
	).From(tableSchedule).
		OrderBy("game_date", "game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load schedule query: %w", err)
	}

	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WarnContext(ctx, "load schedule failed, continuing with empty set", "error", err)
		return nil, nil
	}

	out := make([]schedule.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, schedule.Entry{
			GameID:      row.GameID,
			GameDate:    row.GameDate,
			HomeTeamID:  row.HomeTeamID,
			AwayTeamID:  row.AwayTeamID,
			HomeTricode: row.HomeTricode,
			AwayTricode: row.AwayTricode,
			Status:      row.Status,
			StatusText:  row.StatusText,
		})
	}
	return out, nil
}

func (r *ScheduleRepository) Save(ctx context.Context, entries []schedule.Entry) error {
	if len(entries) == 0 {
		r.logger.InfoContext(ctx, "no schedule entries to save")
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save schedule: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := truncateTable(ctx, tx, tableSchedule); err != nil {
		return err
	}

	stamp := stampTime()
	for _, entry := range entries {
		insertModel := scheduleInsertModel{
			GameID:           entry.GameID,
			GameDate:         entry.GameDate,
			HomeTeamID:       entry.HomeTeamID,
			AwayTeamID:       entry.AwayTeamID,
			HomeTricode:      entry.HomeTricode,
			AwayTricode:      entry.AwayTricode,
			Status:           entry.Status,
			StatusText:       entry.StatusText,
			ModificationDate: stamp,
		}
		query, args, err := qb.InsertModel(tableSchedule, insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert schedule query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.ErrorContext(ctx, "insert schedule row failed", "game_id", entry.GameID, "error", err)
			return fmt.Errorf("insert schedule game=%s: %w", entry.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save schedule tx: %w", err)
	}
	r.logger.InfoContext(ctx, "saved schedule entries", "rows", len(entries))
	return nil
}

type scheduleRow struct {
	GameID      string    `db:"game_id"`
	GameDate    time.Time `db:"game_date"`
	HomeTeamID  int64     `db:"home_team_id"`
	AwayTeamID  int64     `db:"away_team_id"`
	HomeTricode string    `db:"home_tricode"`
	AwayTricode string    `db:"away_tricode"`
	Status      int       `db:"status"`
	StatusText  string    `db:"status_text"`
}

type scheduleInsertModel struct {
	GameID           string    `db:"game_id"`
	GameDate         time.Time `db:"game_date"`
	HomeTeamID       int64     `db:"home_team_id"`
	AwayTeamID       int64     `db:"away_team_id"`
	HomeTricode      string    `db:"home_tricode"`
	AwayTricode      string    `db:"away_tricode"`
	Status           int       `db:"status"`
	StatusText       string    `db:"status_text"`
	ModificationDate time.Time `db:"modification_date"`
}
