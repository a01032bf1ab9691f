package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hoopsight/pointcast/internal/artifact"
	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/prediction"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

type fakeBoxscoreRepo struct {
	basic    []boxscore.Row
	advanced []boxscore.AdvancedRow
}

func (r *fakeBoxscoreRepo) LoadBasic(context.Context) ([]boxscore.Row, error) {
	return r.basic, nil
}

func (r *fakeBoxscoreRepo) SaveBasic(_ context.Context, rows []boxscore.Row) error {
	r.basic = append(r.basic, rows...)
	return nil
}

func (r *fakeBoxscoreRepo) LoadAdvanced(context.Context) ([]boxscore.AdvancedRow, error) {
	return r.advanced, nil
}

func (r *fakeBoxscoreRepo) SaveAdvanced(_ context.Context, rows []boxscore.AdvancedRow) error {
	r.advanced = append(r.advanced, rows...)
	return nil
}

type fakePlayerRepo struct {
	records []player.Record
	saved   map[string][]player.Record
}

func (r *fakePlayerRepo) LoadSeason(context.Context, string) ([]player.Record, error) {
	return r.records, nil
}

func (r *fakePlayerRepo) SaveSeason(_ context.Context, season string, records []player.Record) error {
	if r.saved == nil {
		r.saved = make(map[string][]player.Record)
	}
	r.saved[season] = records
	return nil
}

type fakeScheduleRepo struct {
	entries []schedule.Entry
}

func (r *fakeScheduleRepo) Load(context.Context) ([]schedule.Entry, error) {
	return r.entries, nil
}

func (r *fakeScheduleRepo) Save(_ context.Context, entries []schedule.Entry) error {
	r.entries = entries
	return nil
}

type fakePredictionRepo struct {
	saved   []prediction.Row
	saveErr error
}

func (r *fakePredictionRepo) Load(context.Context) ([]prediction.Row, error) {
	return r.saved, nil
}

func (r *fakePredictionRepo) Save(_ context.Context, rows []prediction.Row) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = rows
	return nil
}

type fixedIDs struct{ id string }

func (g fixedIDs) NewID() (string, error) { return g.id, nil }

func singleFeatureModel(t *testing.T, feature string) artifact.Regressor {
	t.Helper()
	model, err := artifact.NewLinearModel([]string{feature}, 0, []float64{1})
	if err != nil {
		t.Fatalf("new linear model: %v", err)
	}
	return model
}

func predictionFixture() (*fakeBoxscoreRepo, *fakePlayerRepo, *fakeScheduleRepo, *fakePredictionRepo) {
	boxscores := &fakeBoxscoreRepo{
		basic: []boxscore.Row{
			basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 10),
			basicRow("0022300002", day(2), 1, 100, 100, 300, "30:00", 20),
			basicRow("0022300003", day(4), 1, 100, 400, 100, "30:00", 30),
		},
	}
	players := &fakePlayerRepo{records: []player.Record{
		{PersonID: 1, Name: "Test Guard", TeamID: 100, Position: "G"},
		{PersonID: 9, Name: "Rookie", TeamID: 200, Position: "F"},
	}}
	sched := &fakeScheduleRepo{entries: []schedule.Entry{
		slateEntry("0022300050", day(6), 100, 200, schedule.StatusScheduled),
	}}
	return boxscores, players, sched, &fakePredictionRepo{}
}

func TestPredictPointsRequiresModel(t *testing.T) {
	t.Parallel()

	boxscores, players, sched, predictions := predictionFixture()
	service := NewPredictionService(boxscores, players, sched, predictions, fixedIDs{id: "run-1"}, logging.NewNop())

	if _, err := service.PredictPoints(context.Background(), PredictRequest{Date: day(6)}); !errors.Is(err, ErrNoModel) {
		t.Fatalf("expected ErrNoModel, got %v", err)
	}
}

func TestPredictPointsEndToEnd(t *testing.T) {
	t.Parallel()

	boxscores, players, sched, predictions := predictionFixture()
	service := NewPredictionService(boxscores, players, sched, predictions, fixedIDs{id: "run-1"}, logging.NewNop())

	rows, err := service.PredictPoints(context.Background(), PredictRequest{
		Season: "2023-24",
		Date:   day(6),
		Days:   1,
		Model:  singleFeatureModel(t, "points_per36_rolling_5"),
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	// 10, 20, 30 points in 30 minutes are 12, 24, 36 per 36; the trailing
	// mean on the latest game is 24. The rookie has no history and drops.
	if len(rows) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(rows))
	}
	got := rows[0]
	if got.PersonID != 1 || got.GameID != "0022300050" {
		t.Fatalf("wrong row predicted: %+v", got)
	}
	if math.Abs(got.PredictedPoints-24) > 1e-9 {
		t.Fatalf("predicted points: got %v want 24", got.PredictedPoints)
	}
	if got.RunID != "run-1" {
		t.Fatalf("run id: got %q", got.RunID)
	}
	if !got.GameDate.Equal(day(6)) || got.TeamID != 100 || got.OpponentTeamID != 200 {
		t.Fatalf("game context wrong: %+v", got)
	}

	if len(predictions.saved) != 1 || predictions.saved[0].PersonID != 1 {
		t.Fatalf("predictions not persisted: %+v", predictions.saved)
	}
}

func TestPredictPointsUsesSlateHomeContext(t *testing.T) {
	t.Parallel()

	boxscores, players, sched, predictions := predictionFixture()
	// The player's last historical game was on the road; the upcoming game
	// is at home, so the indicator must come from the slate.
	service := NewPredictionService(boxscores, players, sched, predictions, fixedIDs{id: "run-1"}, logging.NewNop())

	rows, err := service.PredictPoints(context.Background(), PredictRequest{
		Season: "2023-24",
		Date:   day(6),
		Days:   1,
		Model:  singleFeatureModel(t, "is_home_true"),
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(rows))
	}
	if math.Abs(rows[0].PredictedPoints-1) > 1e-9 {
		t.Fatalf("is_home_true should be 1 for the home slate row, predicted %v", rows[0].PredictedPoints)
	}
}

func TestPredictPointsEmptySlateIsCleanNoOp(t *testing.T) {
	t.Parallel()

	boxscores, players, sched, predictions := predictionFixture()
	service := NewPredictionService(boxscores, players, sched, predictions, fixedIDs{id: "run-1"}, logging.NewNop())

	rows, err := service.PredictPoints(context.Background(), PredictRequest{
		Season: "2023-24",
		Date:   day(30), // no games that far out
		Days:   1,
		Model:  singleFeatureModel(t, "points_per36_rolling_5"),
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(rows))
	}
	if len(predictions.saved) != 0 {
		t.Fatalf("nothing should be saved for an empty slate")
	}
}

func TestPredictPointsSortsDescending(t *testing.T) {
	t.Parallel()

	boxscores, players, sched, predictions := predictionFixture()
	boxscores.basic = append(boxscores.basic,
		basicRow("0022300004", day(0), 9, 200, 200, 100, "30:00", 6),
	)

	service := NewPredictionService(boxscores, players, sched, predictions, fixedIDs{id: "run-2"}, logging.NewNop())

	rows, err := service.PredictPoints(context.Background(), PredictRequest{
		Season: "2023-24",
		Date:   day(6),
		Days:   1,
		Model:  singleFeatureModel(t, "points_per36_rolling_5"),
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(rows))
	}
	if rows[0].PredictedPoints < rows[1].PredictedPoints {
		t.Fatalf("rows not sorted descending: %v then %v", rows[0].PredictedPoints, rows[1].PredictedPoints)
	}
	if rows[0].PersonID != 1 {
		t.Fatalf("highest scorer should lead: %+v", rows[0])
	}
}

func TestPredictPointsMissingFeatureScoresZero(t *testing.T) {
	t.Parallel()

	boxscores, players, sched, predictions := predictionFixture()
	service := NewPredictionService(boxscores, players, sched, predictions, fixedIDs{id: "run-1"}, logging.NewNop())

	rows, err := service.PredictPoints(context.Background(), PredictRequest{
		Season: "2023-24",
		Date:   day(6),
		Days:   1,
		Model:  singleFeatureModel(t, "some_feature_nobody_produces"),
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(rows) != 1 || rows[0].PredictedPoints != 0 {
		t.Fatalf("unknown features must fill as zero: %+v", rows)
	}
}
