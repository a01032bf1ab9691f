package csvfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

var basicHeader = []string{
	"game_id", "person_id", "team_id", "game_date", "home_team_id", "away_team_id",
	"player_name", "position", "comment", "minutes",
	"points", "rebounds_total", "assists", "steals", "blocks", "turnovers",
	"field_goals_made", "field_goals_attempted",
	"three_pointers_made", "three_pointers_attempted",
	"free_throws_made", "free_throws_attempted",
	"possessions", "modification_date",
}

var advancedHeader = []string{
	"game_id", "person_id", "team_id",
	"usage_pct", "true_shooting_pct", "effective_fg_pct", "offensive_rating",
	"possessions", "modification_date",
}

type BoxscoreRepository struct {
	dataDir string
	logger  *logging.Logger
}

func NewBoxscoreRepository(dataDir string, logger *logging.Logger) *BoxscoreRepository {
	return &BoxscoreRepository{dataDir: dataDir, logger: logger}
}

func (r *BoxscoreRepository) basicPath() string {
	return filepath.Join(r.dataDir, "boxscore_basic.csv")
}

func (r *BoxscoreRepository) advancedPath() string {
	return filepath.Join(r.dataDir, "boxscore_advanced.csv")
}

func (r *BoxscoreRepository) LoadBasic(ctx context.Context) ([]boxscore.Row, error) {
	records := readTable(ctx, r.logger, r.basicPath())
	out := make([]boxscore.Row, 0, len(records))
	for _, record := range records {
		out = append(out, decodeBasicRecord(record))
	}
	return out, nil
}

func (r *BoxscoreRepository) SaveBasic(ctx context.Context, rows []boxscore.Row) error {
	if len(rows) == 0 {
		r.logger.InfoContext(ctx, "no boxscore basic rows to save")
		return nil
	}

	ids := gameIDSet(rows, func(row boxscore.Row) string { return row.GameID })
	records := dropGameIDs(readTable(ctx, r.logger, r.basicPath()), 0, ids)

	modified := stamp()
	for _, row := range rows {
		records = append(records, encodeBasicRecord(row, modified))
	}

	if err := writeTable(r.basicPath(), basicHeader, records); err != nil {
		r.logger.ErrorContext(ctx, "save boxscore basic failed", "rows", len(rows), "error", err)
		return fmt.Errorf("save boxscore basic: %w", err)
	}
	r.logger.InfoContext(ctx, "saved boxscore basic rows", "rows", len(rows), "games", len(ids))
	return nil
}

func (r *BoxscoreRepository) LoadAdvanced(ctx context.Context) ([]boxscore.AdvancedRow, error) {
	records := readTable(ctx, r.logger, r.advancedPath())
	out := make([]boxscore.AdvancedRow, 0, len(records))
	for _, record := range records {
		out = append(out, boxscore.AdvancedRow{
			GameID:          field(record, 0),
			PersonID:        parseInt64(field(record, 1)),
			TeamID:          parseInt64(field(record, 2)),
			UsagePct:        parseFloat(field(record, 3)),
			TrueShootingPct: parseFloat(field(record, 4)),
			EffectiveFGPct:  parseFloat(field(record, 5)),
			OffensiveRating: parseFloat(field(record, 6)),
			Possessions:     parseFloat(field(record, 7)),
		})
	}
	return out, nil
}

func (r *BoxscoreRepository) SaveAdvanced(ctx context.Context, rows []boxscore.AdvancedRow) error {
	if len(rows) == 0 {
		r.logger.InfoContext(ctx, "no boxscore advanced rows to save")
		return nil
	}

	ids := gameIDSet(rows, func(row boxscore.AdvancedRow) string { return row.GameID })
	records := dropGameIDs(readTable(ctx, r.logger, r.advancedPath()), 0, ids)

	modified := stamp()
	for _, row := range rows {
		records = append(records, []string{
			row.GameID,
			formatInt64(row.PersonID),
			formatInt64(row.TeamID),
			formatFloat(row.UsagePct),
			formatFloat(row.TrueShootingPct),
			formatFloat(row.EffectiveFGPct),
			formatFloat(row.OffensiveRating),
			formatFloat(row.Possessions),
			modified,
		})
	}

	if err := writeTable(r.advancedPath(), advancedHeader, records); err != nil {
		r.logger.ErrorContext(ctx, "save boxscore advanced failed", "rows", len(rows), "error", err)
		return fmt.Errorf("save boxscore advanced: %w", err)
	}
	r.logger.InfoContext(ctx, "saved boxscore advanced rows", "rows", len(rows), "games", len(ids))
	return nil
}

func decodeBasicRecord(record []string) boxscore.Row {
	return boxscore.Row{
		GameID:                 field(record, 0),
		PersonID:               parseInt64(field(record, 1)),
		TeamID:                 parseInt64(field(record, 2)),
		GameDate:               parseDate(field(record, 3)),
		HomeTeamID:             parseInt64(field(record, 4)),
		AwayTeamID:             parseInt64(field(record, 5)),
		PlayerName:             field(record, 6),
		Position:               field(record, 7),
		Comment:                field(record, 8),
		Minutes:                field(record, 9),
		Points:                 parseInt(field(record, 10)),
		ReboundsTotal:          parseInt(field(record, 11)),
		Assists:                parseInt(field(record, 12)),
		Steals:                 parseInt(field(record, 13)),
		Blocks:                 parseInt(field(record, 14)),
		Turnovers:              parseInt(field(record, 15)),
		FieldGoalsMade:         parseInt(field(record, 16)),
		FieldGoalsAttempted:    parseInt(field(record, 17)),
		ThreePointersMade:      parseInt(field(record, 18)),
		ThreePointersAttempted: parseInt(field(record, 19)),
		FreeThrowsMade:         parseInt(field(record, 20)),
		FreeThrowsAttempted:    parseInt(field(record, 21)),
		Possessions:            parseFloat(field(record, 22)),
	}
}

func encodeBasicRecord(row boxscore.Row, modified string) []string {
	return []string{
		row.GameID,
		formatInt64(row.PersonID),
		formatInt64(row.TeamID),
		formatDate(row.GameDate),
		formatInt64(row.HomeTeamID),
		formatInt64(row.AwayTeamID),
		row.PlayerName,
		row.Position,
		row.Comment,
		row.Minutes,
		formatInt(row.Points),
		formatInt(row.ReboundsTotal),
		formatInt(row.Assists),
		formatInt(row.Steals),
		formatInt(row.Blocks),
		formatInt(row.Turnovers),
		formatInt(row.FieldGoalsMade),
		formatInt(row.FieldGoalsAttempted),
		formatInt(row.ThreePointersMade),
		formatInt(row.ThreePointersAttempted),
		formatInt(row.FreeThrowsMade),
		formatInt(row.FreeThrowsAttempted),
		formatFloat(row.Possessions),
		modified,
	}
}
