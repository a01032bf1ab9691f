package csvfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hoopsight/pointcast/internal/domain/prediction"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

var predictionHeader = []string{
	"game_id", "game_date", "team_id", "opponent_team_id",
	"person_id", "player_name", "predicted_points", "run_id", "modification_date",
}

type PredictionRepository struct {
	dataDir string
	logger  *logging.Logger
}

func NewPredictionRepository(dataDir string, logger *logging.Logger) *PredictionRepository {
	return &PredictionRepository{dataDir: dataDir, logger: logger}
}

func (r *PredictionRepository) path() string {
	return filepath.Join(r.dataDir, "predictions.csv")
}

func (r *PredictionRepository) Load(ctx context.Context) ([]prediction.Row, error) {
	records := readTable(ctx, r.logger, r.path())
	out := make([]prediction.Row, 0, len(records))
	for _, record := range records {
		out = append(out, prediction.Row{
			GameID:          field(record, 0),
			GameDate:        parseDate(field(record, 1)),
			TeamID:          parseInt64(field(record, 2)),
			OpponentTeamID:  parseInt64(field(record, 3)),
			PersonID:        parseInt64(field(record, 4)),
			PlayerName:      field(record, 5),
			PredictedPoints: parseFloat(field(record, 6)),
			RunID:           field(record, 7),
		})
	}
	return out, nil
}

func (r *PredictionRepository) Save(ctx context.Context, rows []prediction.Row) error {
	if len(rows) == 0 {
		r.logger.InfoContext(ctx, "no predictions to save")
		return nil
	}

	ids := gameIDSet(rows, func(row prediction.Row) string { return row.GameID })
	records := dropGameIDs(readTable(ctx, r.logger, r.path()), 0, ids)

	modified := stamp()
	for _, row := range rows {
		records = append(records, []string{
			row.GameID,
			formatDate(row.GameDate),
			formatInt64(row.TeamID),
			formatInt64(row.OpponentTeamID),
			formatInt64(row.PersonID),
			row.PlayerName,
			formatFloat(row.PredictedPoints),
			row.RunID,
			modified,
		})
	}

	if err := writeTable(r.path(), predictionHeader, records); err != nil {
		r.logger.ErrorContext(ctx, "save predictions failed", "rows", len(rows), "error", err)
		return fmt.Errorf("save predictions: %w", err)
	}
	r.logger.InfoContext(ctx, "saved predictions", "rows", len(rows), "games", len(ids))
	return nil
}
