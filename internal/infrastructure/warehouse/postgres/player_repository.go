package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/platform/logging"
	qb "github.com/hoopsight/pointcast/internal/platform/querybuilder"
)

// PlayerRepository stores one table per season (players_2024_25). The table
// is created on first save; migrations cannot know season labels up front.
type PlayerRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewPlayerRepository(db *sqlx.DB, logger *logging.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

func playerTable(season string) string {
	return "players_" + sanitizeIdent(season)
}

func (r *PlayerRepository) LoadSeason(ctx context.Context, season string) ([]player.Record, error) {
	query, args, err := qb.Select(
		"person_id",
		"name",
		"slug",
		"team_id",
		"position",
		"height",
		"weight",
		"active",
	).From(playerTable(season)).
		OrderBy("person_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load players query: %w", err)
	}

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WarnContext(ctx, "load players failed, continuing with empty set", "season", season, "error", err)
		return nil, nil
	}

	out := make([]player.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Record{
			PersonID: row.PersonID,
			Name:     row.Name,
			Slug:     row.Slug,
			TeamID:   row.TeamID,
			Position: row.Position,
			Height:   row.Height,
			Weight:   row.Weight,
			Active:   row.Active,
		})
	}
	return out, nil
}

func (r *PlayerRepository) SaveSeason(ctx context.Context, season string, records []player.Record) error {
	if len(records) == 0 {
		r.logger.InfoContext(ctx, "no player records to save", "season", season)
		return nil
	}

	table := playerTable(season)
	if err := r.ensureTable(ctx, table); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := truncateTable(ctx, tx, table); err != nil {
		return err
	}

	stamp := stampTime()
	for _, record := range records {
		insertModel := playerInsertModel{
			PersonID:         record.PersonID,
			Name:             record.Name,
			Slug:             record.Slug,
			TeamID:           record.TeamID,
			Position:         record.Position,
			Height:           record.Height,
			Weight:           record.Weight,
			Active:           record.Active,
			ModificationDate: stamp,
		}
		query, args, err := qb.InsertModel(table, insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.ErrorContext(ctx, "insert player row failed",
				"season", season, "person_id", record.PersonID, "error", err)
			return fmt.Errorf("insert player person=%d season=%s: %w", record.PersonID, season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save players tx: %w", err)
	}
	r.logger.InfoContext(ctx, "saved player records", "season", season, "rows", len(records))
	return nil
}

func (r *PlayerRepository) ensureTable(ctx context.Context, table string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    person_id BIGINT NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL DEFAULT '',
    team_id BIGINT NOT NULL DEFAULT 0,
    position TEXT NOT NULL DEFAULT '',
    height TEXT NOT NULL DEFAULT '',
    weight TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    modification_date TIMESTAMPTZ NOT NULL
)`, table)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure %s table: %w", table, err)
	}
	return nil
}

type playerRow struct {
	PersonID int64  `db:"person_id"`
	Name     string `db:"name"`
	Slug     string `db:"slug"`
	TeamID   int64  `db:"team_id"`
	Position string `db:"position"`
	Height   string `db:"height"`
	Weight   string `db:"weight"`
	Active   bool   `db:"active"`
}

type playerInsertModel struct {
	PersonID         int64     `db:"person_id"`
	Name             string    `db:"name"`
	Slug             string    `db:"slug"`
	TeamID           int64     `db:"team_id"`
	Position         string    `db:"position"`
	Height           string    `db:"height"`
	Weight           string    `db:"weight"`
	Active           bool      `db:"active"`
	ModificationDate time.Time `db:"modification_date"`
}
