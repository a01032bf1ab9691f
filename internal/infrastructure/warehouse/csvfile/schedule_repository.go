package csvfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

var scheduleHeader = []string{
	"game_id", "game_date", "home_team_id", "away_team_id",
	"home_tricode", "away_tricode", "status", "status_text", "modification_date",
}

type ScheduleRepository struct {
	dataDir string
	logger  *logging.Logger
}

func NewScheduleRepository(dataDir string, logger *logging.Logger) *ScheduleRepository {
	return &ScheduleRepository{dataDir: dataDir, logger: logger}
}

func (r *ScheduleRepository) path() string {
	return filepath.Join(r.dataDir, "schedule.csv")
}

func (r *ScheduleRepository) Load(ctx context.Context) ([]schedule.Entry, error) {
	records := readTable(ctx, r.logger, r.path())
	out := make([]schedule.Entry, 0, len(records))
	for _, record := range records {
		out = append(out, schedule.Entry{
			GameID:      field(record, 0),
			GameDate:    parseDate(field(record, 1)),
			HomeTeamID:  parseInt64(field(record, 2)),
			AwayTeamID:  parseInt64(field(record, 3)),
			HomeTricode: field(record, 4),
			AwayTricode: field(record, 5),
			Status:      parseInt(field(record, 6)),
			StatusText:  field(record, 7),
		})
	}
	return out, nil
}

func (r *ScheduleRepository) Save(ctx context.Context, entries []schedule.Entry) error {
	if len(entries) == 0 {
		r.logger.InfoContext(ctx, "no schedule entries to save")
		return nil
	}

	modified := stamp()
	records := make([][]string, 0, len(entries))
	for _, entry := range entries {
		records = append(records, []string{
			entry.GameID,
			formatDate(entry.GameDate),
			formatInt64(entry.HomeTeamID),
			formatInt64(entry.AwayTeamID),
			entry.HomeTricode,
			entry.AwayTricode,
			formatInt(entry.Status),
			entry.StatusText,
			modified,
		})
	}

	if err := writeTable(r.path(), scheduleHeader, records); err != nil {
		r.logger.ErrorContext(ctx, "save schedule failed", "rows", len(entries), "error", err)
		return fmt.Errorf("save schedule: %w", err)
	}
	r.logger.InfoContext(ctx, "saved schedule entries", "rows", len(entries))
	return nil
}
