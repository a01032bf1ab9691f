package csvfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hoopsight/pointcast/internal/domain/team"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

var teamHeader = []string{
	"team_id", "name", "tricode", "city", "conference", "division", "modification_date",
}

type TeamRepository struct {
	dataDir string
	logger  *logging.Logger
}

func NewTeamRepository(dataDir string, logger *logging.Logger) *TeamRepository {
	return &TeamRepository{dataDir: dataDir, logger: logger}
}

func (r *TeamRepository) path() string {
	return filepath.Join(r.dataDir, "teams.csv")
}

func (r *TeamRepository) Load(ctx context.Context) ([]team.Team, error) {
	records := readTable(ctx, r.logger, r.path())
	out := make([]team.Team, 0, len(records))
	for _, record := range records {
		out = append(out, team.Team{
			TeamID:     parseInt64(field(record, 0)),
			Name:       field(record, 1),
			Tricode:    field(record, 2),
			City:       field(record, 3),
			Conference: field(record, 4),
			Division:   field(record, 5),
		})
	}
	return out, nil
}

func (r *TeamRepository) Save(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		r.logger.InfoContext(ctx, "no teams to save")
		return nil
	}

	modified := stamp()
	records := make([][]string, 0, len(teams))
	for _, t := range teams {
		records = append(records, []string{
			formatInt64(t.TeamID),
			t.Name,
			t.Tricode,
			t.City,
			t.Conference,
			t.Division,
			modified,
		})
	}

	if err := writeTable(r.path(), teamHeader, records); err != nil {
		r.logger.ErrorContext(ctx, "save teams failed", "rows", len(teams), "error", err)
		return fmt.Errorf("save teams: %w", err)
	}
	r.logger.InfoContext(ctx, "saved teams", "rows", len(teams))
	return nil
}
