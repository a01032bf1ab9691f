package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsight/pointcast/internal/domain/team"
	"github.com/hoopsight/pointcast/internal/platform/logging"
	qb "github.com/hoopsight/pointcast/internal/platform/querybuilder"
)

const tableTeams = "teams"

type TeamRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewTeamRepository(db *sqlx.DB, logger *logging.Logger) *TeamRepository {
	return &TeamRepository{db: db, logger: logger}
}

func (r *TeamRepository) Load(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(
		"team_id",
		"name",
		"tricode",
		"city",
		"conference",
		"division",
	).From(tableTeams).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load teams query: %w", err)
	}

	var rows []teamRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WarnContext(ctx, "load teams failed, continuing with empty set", "error", err)
		return nil, nil
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			TeamID:     row.TeamID,
			Name:       row.Name,
			Tricode:    row.Tricode,
			City:       row.City,
			Conference: row.Conference,
			Division:   row.Division,
		})
	}
	return out, nil
}

func (r *TeamRepository) Save(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		r.logger.InfoContext(ctx, "no teams to save")
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := truncateTable(ctx, tx, tableTeams); err != nil {
		return err
	}

	stamp := stampTime()
	for _, t := range teams {
		insertModel := teamInsertModel{
			TeamID:           t.TeamID,
			Name:             t.Name,
			Tricode:          t.Tricode,
			City:             t.City,
			Conference:       t.Conference,
			Division:         t.Division,
			ModificationDate: stamp,
		}
		query, args, err := qb.InsertModel(tableTeams, insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.ErrorContext(ctx, "insert team row failed", "team_id", t.TeamID, "error", err)
			return fmt.Errorf("insert team team=%d: %w", t.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save teams tx: %w", err)
	}
	r.logger.InfoContext(ctx, "saved teams", "rows", len(teams))
	return nil
}

type teamRow struct {
	TeamID     int64  `db:"team_id"`
	Name       string `db:"name"`
	Tricode    string `db:"tricode"`
	City       string `db:"city"`
	Conference string `db:"conference"`
	Division   string `db:"division"`
}

type teamInsertModel struct {
	TeamID           int64     `db:"team_id"`
	Name             string    `db:"name"`
	Tricode          string    `db:"tricode"`
	City             string    `db:"city"`
	Conference       string    `db:"conference"`
	Division         string    `db:"division"`
	ModificationDate time.Time `db:"modification_date"`
}
