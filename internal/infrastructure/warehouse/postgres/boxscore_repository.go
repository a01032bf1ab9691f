package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/platform/logging"
	qb "github.com/hoopsight/pointcast/internal/platform/querybuilder"
)

const (
	tableBoxscoreBasic    = "boxscore_basic"
	tableBoxscoreAdvanced = "boxscore_advanced"
)

type BoxscoreRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewBoxscoreRepository(db *sqlx.DB, logger *logging.Logger) *BoxscoreRepository {
	return &BoxscoreRepository{db: db, logger: logger}
}

func (r *BoxscoreRepository) LoadBasic(ctx context.Context) ([]boxscore.Row, error) {
	query, args, err := qb.Select(
		"game_id",
		"person_id",
		"team_id",
		"game_date",
		"home_team_id",
		"away_team_id",
		"player_name",
		"position",
		"comment",
		"minutes",
		"points",
		"rebounds_total",
		"assists",
		"steals",
		"blocks",
		"turnovers",
		"field_goals_made",
		"field_goals_attempted",
		"three_pointers_made",
		"three_pointers_attempted",
		"free_throws_made",
		"free_throws_attempted",
		"possessions",
	).From(tableBoxscoreBasic).
		OrderBy("game_date", "game_id", "person_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load boxscore basic query: %w", err)
	}

	var rows []basicBoxscoreRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WarnContext(ctx, "load boxscore basic failed, continuing with empty set", "error", err)
		return nil, nil
	}

	out := make([]boxscore.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, boxscore.Row{
			GameID:                 row.GameID,
			PersonID:               row.PersonID,
			TeamID:                 row.TeamID,
			GameDate:               row.GameDate,
			HomeTeamID:             row.HomeTeamID,
			AwayTeamID:             row.AwayTeamID,
			PlayerName:             row.PlayerName,
			Position:               row.Position,
			Comment:                row.Comment,
			Minutes:                row.Minutes,
			Points:                 row.Points,
			ReboundsTotal:          row.ReboundsTotal,
			Assists:                row.Assists,
			Steals:                 row.Steals,
			Blocks:                 row.Blocks,
			Turnovers:              row.Turnovers,
			FieldGoalsMade:         row.FieldGoalsMade,
			FieldGoalsAttempted:    row.FieldGoalsAttempted,
			ThreePointersMade:      row.ThreePointersMade,
			ThreePointersAttempted: row.ThreePointersAttempted,
			FreeThrowsMade:         row.FreeThrowsMade,
			FreeThrowsAttempted:    row.FreeThrowsAttempted,
			Possessions:            row.Possessions,
		})
	}
	return out, nil
}

func (r *BoxscoreRepository) SaveBasic(ctx context.Context, rows []boxscore.Row) error {
	if len(rows) == 0 {
		r.logger.InfoContext(ctx, "no boxscore basic rows to save")
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save boxscore basic: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ids := uniqueGameIDs(rows, func(row boxscore.Row) string { return row.GameID })
	if err := deleteByGameIDs(ctx, tx, tableBoxscoreBasic, ids); err != nil {
		return err
	}

	stamp := stampTime()
	for _, row := range rows {
		insertModel := basicBoxscoreInsertModel{
			GameID:                 row.GameID,
			PersonID:               row.PersonID,
			TeamID:                 row.TeamID,
			GameDate:               row.GameDate,
			HomeTeamID:             row.HomeTeamID,
			AwayTeamID:             row.AwayTeamID,
			PlayerName:             row.PlayerName,
			Position:               row.Position,
			Comment:                row.Comment,
			Minutes:                row.Minutes,
			Points:                 row.Points,
			ReboundsTotal:          row.ReboundsTotal,
			Assists:                row.Assists,
			Steals:                 row.Steals,
			Blocks:                 row.Blocks,
			Turnovers:              row.Turnovers,
			FieldGoalsMade:         row.FieldGoalsMade,
			FieldGoalsAttempted:    row.FieldGoalsAttempted,
			ThreePointersMade:      row.ThreePointersMade,
			ThreePointersAttempted: row.ThreePointersAttempted,
			FreeThrowsMade:         row.FreeThrowsMade,
			FreeThrowsAttempted:    row.FreeThrowsAttempted,
			Possessions:            row.Possessions,
			ModificationDate:       stamp,
		}
		query, args, err := qb.InsertModel(tableBoxscoreBasic, insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert boxscore basic query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.ErrorContext(ctx, "insert boxscore basic row failed",
				"game_id", row.GameID, "person_id", row.PersonID, "team_id", row.TeamID, "error", err)
			return fmt.Errorf("insert boxscore basic row game=%s person=%d: %w", row.GameID, row.PersonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save boxscore basic tx: %w", err)
	}
	r.logger.InfoContext(ctx, "saved boxscore basic rows", "rows", len(rows), "games", len(ids))
	return nil
}

func (r *BoxscoreRepository) LoadAdvanced(ctx context.Context) ([]boxscore.AdvancedRow, error) {
	query, args, err := qb.Select(
		"game_id",
		"person_id",
		"team_id",
		"usage_pct",
		"true_shooting_pct",
		"effective_fg_pct",
		"offensive_rating",
		"possessions",
	).From(tableBoxscoreAdvanced).
		OrderBy("game_id", "person_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load boxscore advanced query: %w", err)
	}

	var rows []advancedBoxscoreRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WarnContext(ctx, "load boxscore advanced failed, continuing with empty set", "error", err)
		return nil, nil
	}

	out := make([]boxscore.AdvancedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, boxscore.AdvancedRow{
			GameID:          row.GameID,
			PersonID:        row.PersonID,
			TeamID:          row.TeamID,
			UsagePct:        row.UsagePct,
			TrueShootingPct: row.TrueShootingPct,
			EffectiveFGPct:  row.EffectiveFGPct,
			OffensiveRating: row.OffensiveRating,
			Possessions:     row.Possessions,
		})
	}
	return out, nil
}

func (r *BoxscoreRepository) SaveAdvanced(ctx context.Context, rows []boxscore.AdvancedRow) error {
	if len(rows) == 0 {
		r.logger.InfoContext(ctx, "no boxscore advanced rows to save")
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save boxscore advanced: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ids := uniqueGameIDs(rows, func(row boxscore.AdvancedRow) string { return row.GameID })
	if err := deleteByGameIDs(ctx, tx, tableBoxscoreAdvanced, ids); err != nil {
		return err
	}

	stamp := stampTime()
	for _, row := range rows {
		insertModel := advancedBoxscoreInsertModel{
			GameID:           row.GameID,
			PersonID:         row.PersonID,
			TeamID:           row.TeamID,
			UsagePct:         row.UsagePct,
			TrueShootingPct:  row.TrueShootingPct,
			EffectiveFGPct:   row.EffectiveFGPct,
			OffensiveRating:  row.OffensiveRating,
			Possessions:      row.Possessions,
			ModificationDate: stamp,
		}
		query, args, err := qb.InsertModel(tableBoxscoreAdvanced, insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert boxscore advanced query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.ErrorContext(ctx, "insert boxscore advanced row failed",
				"game_id", row.GameID, "person_id", row.PersonID, "team_id", row.TeamID, "error", err)
			return fmt.Errorf("insert boxscore advanced row game=%s person=%d: %w", row.GameID, row.PersonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save boxscore advanced tx: %w", err)
	}
	r.logger.InfoContext(ctx, "saved boxscore advanced rows", "rows", len(rows), "games", len(ids))
	return nil
}

type basicBoxscoreRow struct {
	GameID                 string    `db:"game_id"`
	PersonID               int64     `db:"person_id"`
	TeamID                 int64     `db:"team_id"`
	GameDate               time.Time `db:"game_date"`
	HomeTeamID             int64     `db:"home_team_id"`
	AwayTeamID             int64     `db:"away_team_id"`
	PlayerName             string    `db:"player_name"`
	Position               string    `db:"position"`
	Comment                string    `db:"comment"`
	Minutes                string    `db:"minutes"`
	Points                 int       `db:"points"`
	ReboundsTotal          int       `db:"rebounds_total"`
	Assists                int       `db:"assists"`
	Steals                 int       `db:"steals"`
	Blocks                 int       `db:"blocks"`
	Turnovers              int       `db:"turnovers"`
	FieldGoalsMade         int       `db:"field_goals_made"`
	FieldGoalsAttempted    int       `db:"field_goals_attempted"`
	ThreePointersMade      int       `db:"three_pointers_made"`
	ThreePointersAttempted int       `db:"three_pointers_attempted"`
	FreeThrowsMade         int       `db:"free_throws_made"`
	FreeThrowsAttempted    int       `db:"free_throws_attempted"`
	Possessions            float64   `db:"possessions"`
}

type basicBoxscoreInsertModel struct {
	GameID                 string    `db:"game_id"`
	PersonID               int64     `db:"person_id"`
	TeamID                 int64     `db:"team_id"`
	GameDate               time.Time `db:"game_date"`
	HomeTeamID             int64     `db:"home_team_id"`
	AwayTeamID             int64     `db:"away_team_id"`
	PlayerName             string    `db:"player_name"`
	Position               string    `db:"position"`
	Comment                string    `db:"comment"`
	Minutes                string    `db:"minutes"`
	Points                 int       `db:"points"`
	ReboundsTotal          int       `db:"rebounds_total"`
	Assists                int       `db:"assists"`
	Steals                 int       `db:"steals"`
	Blocks                 int       `db:"blocks"`
	Turnovers              int       `db:"turnovers"`
	FieldGoalsMade         int       `db:"field_goals_made"`
	FieldGoalsAttempted    int       `db:"field_goals_attempted"`
	ThreePointersMade      int       `db:"three_pointers_made"`
	ThreePointersAttempted int       `db:"three_pointers_attempted"`
	FreeThrowsMade         int       `db:"free_throws_made"`
	FreeThrowsAttempted    int       `db:"free_throws_attempted"`
	Possessions            float64   `db:"possessions"`
	ModificationDate       time.Time `db:"modification_date"`
}

type advancedBoxscoreRow struct {
	GameID          string  `db:"game_id"`
	PersonID        int64   `db:"person_id"`
	TeamID          int64   `db:"team_id"`
	UsagePct        float64 `db:"usage_pct"`
	TrueShootingPct float64 `db:"true_shooting_pct"`
	EffectiveFGPct  float64 `db:"effective_fg_pct"`
	OffensiveRating float64 `db:"offensive_rating"`
	Possessions     float64 `db:"possessions"`
}

type advancedBoxscoreInsertModel struct {
	GameID           string    `db:"game_id"`
	PersonID         int64     `db:"person_id"`
	TeamID           int64     `db:"team_id"`
	UsagePct         float64   `db:"usage_pct"`
	TrueShootingPct  float64   `db:"true_shooting_pct"`
	EffectiveFGPct   float64   `db:"effective_fg_pct"`
	OffensiveRating  float64   `db:"offensive_rating"`
	Possessions      float64   `db:"possessions"`
	ModificationDate time.Time `db:"modification_date"`
}
