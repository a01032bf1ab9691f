package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hoopsight/pointcast/internal/artifact"
	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/prediction"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/id"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

// PredictionService scores the upcoming slate with a pre-trained regression
// artifact: history in, features engineered, one row per rostered player out.
type PredictionService struct {
	boxscores   boxscore.Repository
	players     player.Repository
	schedule    schedule.Repository
	predictions prediction.Repository

	history    *HistoryBuilder
	featurizer *Featurizer
	slates     *SlateBuilder

	ids    id.Generator
	logger *logging.Logger
}

func NewPredictionService(
	boxscores boxscore.Repository,
	players player.Repository,
	sched schedule.Repository,
	predictions prediction.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &PredictionService{
		boxscores:   boxscores,
		players:     players,
		schedule:    sched,
		predictions: predictions,
		history:     NewHistoryBuilder(logger),
		featurizer:  NewFeaturizer(logger),
		slates:      NewSlateBuilder(logger),
		ids:         ids,
		logger:      logger,
	}
}

// PredictRequest selects the slate to score. Season is the roster label
// ("2024-25"); Date and Days bound the schedule window.
type PredictRequest struct {
	Season string
	Date   time.Time
	Days   int
	Model  artifact.Regressor
}

// PredictPoints runs the full scoring pass and persists the result. An empty
// slate is a clean no-op. Players with no playable history are dropped from
// the slate rather than scored on zeros.
func (s *PredictionService) PredictPoints(ctx context.Context, req PredictRequest) ([]prediction.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.PredictPoints")
	defer span.End()

	if req.Model == nil {
		return nil, ErrNoModel
	}

	roster, err := s.players.LoadSeason(ctx, req.Season)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	entries, err := s.schedule.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	basic, err := s.boxscores.LoadBasic(ctx)
	if err != nil {
		return nil, fmt.Errorf("load basic boxscores: %w", err)
	}
	advanced, err := s.boxscores.LoadAdvanced(ctx)
	if err != nil {
		return nil, fmt.Errorf("load advanced boxscores: %w", err)
	}

	slate := s.slates.Build(ctx, entries, roster, req.Date, req.Days)
	if len(slate) == 0 {
		s.logger.InfoContext(ctx, "no games in prediction window, nothing to score",
			"date", req.Date.Format("2006-01-02"), "days", req.Days)
		return nil, nil
	}

	historical, defense := s.history.Build(ctx, basic, advanced, roster, entries)
	historical = s.featurizer.Engineer(ctx, historical)

	encoder := fitOneHot(historical, slate)
	encoder.apply(slate)

	scored, dropped := s.mergeSnapshots(historical, slate, defense)
	if len(scored) == 0 {
		s.logger.WarnContext(ctx, "slate has no players with history, nothing to score",
			"slate_rows", len(slate))
		return nil, nil
	}

	matrix := buildMatrix(scored, req.Model.Features())
	predicted, err := req.Model.Predict(matrix)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	rows := make([]prediction.Row, len(scored))
	for i, row := range scored {
		rows[i] = prediction.Row{
			GameID:          row.GameID,
			GameDate:        row.GameDate,
			TeamID:          row.TeamID,
			OpponentTeamID:  row.OpponentTeamID,
			PersonID:        row.PersonID,
			PlayerName:      row.PlayerName,
			PredictedPoints: predicted[i],
			RunID:           runID,
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PredictedPoints != rows[j].PredictedPoints {
			return rows[i].PredictedPoints > rows[j].PredictedPoints
		}
		return rows[i].PersonID < rows[j].PersonID
	})

	if err := s.predictions.Save(ctx, rows); err != nil {
		return nil, fmt.Errorf("save predictions: %w", err)
	}

	s.logger.InfoContext(ctx, "scored prediction slate",
		"run_id", runID, "rows", len(rows), "dropped_no_history", dropped)
	return rows, nil
}

// mergeSnapshots joins each slate row with the player's most recent
// historical feature snapshot. Categorical indicators and the opponent
// defense aggregates come from the slate's own context, everything else
// carries over from the snapshot.
func (s *PredictionService) mergeSnapshots(
	historical, slate []FeatureRow,
	defense map[defenseKey]DefenseAggregate,
) (merged []FeatureRow, dropped int) {
	latest := make(map[int64]FeatureRow, len(historical))
	for _, row := range historical {
		latest[row.PersonID] = row
	}

	for _, row := range slate {
		snapshot, ok := latest[row.PersonID]
		if !ok {
			dropped++
			continue
		}

		for name, value := range snapshot.Values {
			if isCategoricalFeature(name) {
				continue
			}
			if _, set := row.Get(name); set {
				continue
			}
			row.Set(name, value)
		}

		key := defenseKey{PositionGroup: row.PositionGroup, OpponentTeamID: row.OpponentTeamID}
		if agg, ok := defense[key]; ok {
			row.Set(featOppPositionLast10, agg.Last10)
			row.Set(featOppPositionLast20, agg.Last20)
			row.Set(featOppPositionAll, agg.All)
		} else {
			delete(row.Values, featOppPositionLast10)
			delete(row.Values, featOppPositionLast20)
			delete(row.Values, featOppPositionAll)
		}

		merged = append(merged, row)
	}
	return merged, dropped
}

// buildMatrix lays rows out in the artifact's feature order. Features a row
// lacks score as zero, matching how the model was trained on sparse frames.
func buildMatrix(rows []FeatureRow, features []string) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		vector := make([]float64, len(features))
		for j, name := range features {
			if value, ok := row.Get(name); ok {
				vector[j] = value
			}
		}
		matrix[i] = vector
	}
	return matrix
}
