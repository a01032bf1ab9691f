package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

func day(offset int) time.Time {
	return time.Date(2024, time.January, 1+offset, 0, 0, 0, 0, time.UTC)
}

func basicRow(gameID string, date time.Time, personID, teamID, homeID, awayID int64, minutes string, points int) boxscore.Row {
	return boxscore.Row{
		GameID:         gameID,
		PersonID:       personID,
		TeamID:         teamID,
		GameDate:       date,
		HomeTeamID:     homeID,
		AwayTeamID:     awayID,
		Minutes:        minutes,
		Points:         points,
		FieldGoalsMade: points / 2,
	}
}

func findRow(t *testing.T, rows []FeatureRow, gameID string, personID int64) FeatureRow {
	t.Helper()
	for _, row := range rows {
		if row.GameID == gameID && row.PersonID == personID {
			return row
		}
	}
	t.Fatalf("row not found: game %s person %d", gameID, personID)
	return FeatureRow{}
}

func TestBuildDropsDNPRows(t *testing.T) {
	t.Parallel()

	basic := []boxscore.Row{
		basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 20),
		{GameID: "0022300001", PersonID: 2, TeamID: 100, GameDate: day(0), HomeTeamID: 100, AwayTeamID: 200, Comment: "DNP - Coach's Decision"},
	}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, nil, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after DNP filter, got %d", len(rows))
	}
	if rows[0].PersonID != 1 {
		t.Fatalf("wrong row survived: person %d", rows[0].PersonID)
	}
}

func TestBuildKeepsCommentedRowWithMinutes(t *testing.T) {
	t.Parallel()

	row := basicRow("0022300001", day(0), 1, 100, 100, 200, "12:30", 6)
	row.Comment = "left in 4th quarter"

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), []boxscore.Row{row}, nil, nil, nil)
	if len(rows) != 1 {
		t.Fatalf("row with minutes should survive the DNP filter, got %d rows", len(rows))
	}
	if math.Abs(rows[0].MinutesPlayed-12.5) > 1e-9 {
		t.Fatalf("minutes: got %v want 12.5", rows[0].MinutesPlayed)
	}
}

func TestBuildDerivesContextFields(t *testing.T) {
	t.Parallel()

	basic := []boxscore.Row{
		basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 20),
		basicRow("0022300001", day(0), 2, 200, 100, 200, "30:00", 15),
	}
	players := []player.Record{
		{PersonID: 1, Name: "Home Guard", Position: "G"},
		{PersonID: 2, Name: "Away Forward", Position: "F"},
	}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, players, nil)

	home := findRow(t, rows, "0022300001", 1)
	if !home.IsHome || home.OpponentTeamID != 200 {
		t.Fatalf("home row context wrong: is_home=%v opponent=%d", home.IsHome, home.OpponentTeamID)
	}
	if home.Season != 2023 {
		t.Fatalf("season: got %d want 2023", home.Season)
	}
	if home.PositionGroup != boxscore.GroupGuard {
		t.Fatalf("position group: got %q", home.PositionGroup)
	}

	away := findRow(t, rows, "0022300001", 2)
	if away.IsHome || away.OpponentTeamID != 100 {
		t.Fatalf("away row context wrong: is_home=%v opponent=%d", away.IsHome, away.OpponentTeamID)
	}
	if away.PositionGroup != boxscore.GroupForward {
		t.Fatalf("position group: got %q", away.PositionGroup)
	}
}

func TestBuildJoinsRosterMeasurements(t *testing.T) {
	t.Parallel()

	basic := []boxscore.Row{basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 20)}
	players := []player.Record{
		{PersonID: 1, Position: "G", Height: "6-7", Weight: "215"},
	}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, players, nil)
	got := findRow(t, rows, "0022300001", 1)

	if h, ok := got.Get("height"); !ok || h != 79 {
		t.Fatalf("height: got %v ok=%v want 79", h, ok)
	}
	if w, ok := got.Get("weight"); !ok || w != 215 {
		t.Fatalf("weight: got %v ok=%v want 215", w, ok)
	}
}

func TestBuildSkipsUnparseableMeasurements(t *testing.T) {
	t.Parallel()

	basic := []boxscore.Row{basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 20)}
	players := []player.Record{
		{PersonID: 1, Position: "G", Height: "tall", Weight: ""},
	}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, players, nil)
	got := findRow(t, rows, "0022300001", 1)

	if _, ok := got.Get("height"); ok {
		t.Fatalf("malformed height must stay absent")
	}
	if _, ok := got.Get("weight"); ok {
		t.Fatalf("empty weight must stay absent")
	}
}

func TestBuildFillsFromScheduleWhenRowLacksContext(t *testing.T) {
	t.Parallel()

	raw := boxscore.Row{GameID: "0022300001", PersonID: 1, TeamID: 100, Minutes: "30:00", Points: 20}
	entries := []schedule.Entry{{
		GameID: "0022300001", GameDate: day(3), HomeTeamID: 100, AwayTeamID: 200, Status: schedule.StatusFinal,
	}}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), []boxscore.Row{raw}, nil, nil, entries)
	got := findRow(t, rows, "0022300001", 1)
	if !got.GameDate.Equal(day(3)) {
		t.Fatalf("game date not joined from schedule: %v", got.GameDate)
	}
	if got.OpponentTeamID != 200 || !got.IsHome {
		t.Fatalf("home/away not joined: is_home=%v opponent=%d", got.IsHome, got.OpponentTeamID)
	}
}

func TestBuildMergesAdvancedMetrics(t *testing.T) {
	t.Parallel()

	basic := []boxscore.Row{basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 20)}
	advanced := []boxscore.AdvancedRow{{
		GameID:          "0022300001",
		PersonID:        1,
		TeamID:          100,
		UsagePct:        0.28,
		TrueShootingPct: 0.61,
		EffectiveFGPct:  0.55,
		OffensiveRating: 118,
		Possessions:     64,
	}}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, advanced, nil, nil)
	got := findRow(t, rows, "0022300001", 1)

	if usage, ok := got.Get(featUsagePct); !ok || math.Abs(usage-0.28) > 1e-9 {
		t.Fatalf("usage_pct: got %v ok=%v", usage, ok)
	}
	if got.Possessions != 64 {
		t.Fatalf("possessions not merged: %v", got.Possessions)
	}
}

func TestBuildOpponentAndSeasonAverages(t *testing.T) {
	t.Parallel()

	// Player 1 scores 10, 20, 30 against team 200 across three games.
	basic := []boxscore.Row{
		basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 10),
		basicRow("0022300002", day(2), 1, 100, 200, 100, "30:00", 20),
		basicRow("0022300003", day(4), 1, 100, 100, 200, "30:00", 30),
		// Below the playing-time floor, must not move the aggregates.
		basicRow("0022300004", day(5), 2, 100, 100, 200, "5:00", 40),
	}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, nil, nil)

	last := findRow(t, rows, "0022300003", 1)
	if avg, ok := last.Get(featAvgPtsOpp); !ok || math.Abs(avg-20) > 1e-9 {
		t.Fatalf("avg_pts_opp: got %v ok=%v want 20", avg, ok)
	}
	if avg, ok := last.Get(featSeasonAvg); !ok || math.Abs(avg-20) > 1e-9 {
		t.Fatalf("season_avg after three games: got %v ok=%v want 20", avg, ok)
	}

	first := findRow(t, rows, "0022300001", 1)
	if avg, ok := first.Get(featSeasonAvg); !ok || math.Abs(avg-10) > 1e-9 {
		t.Fatalf("season_avg after first game: got %v ok=%v want 10", avg, ok)
	}

	short := findRow(t, rows, "0022300004", 2)
	if _, ok := short.Get(featSeasonAvg); ok {
		t.Fatalf("short stint should have no season average")
	}
}

func TestBuildDaysRest(t *testing.T) {
	t.Parallel()

	basic := []boxscore.Row{
		basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 10),
		basicRow("0022300002", day(3), 1, 100, 100, 200, "30:00", 12),
	}

	rows, _ := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, nil, nil)

	first := findRow(t, rows, "0022300001", 1)
	if rest, _ := first.Get(featDaysRest); rest != defaultDaysRest {
		t.Fatalf("first game days_rest: got %v want %v", rest, defaultDaysRest)
	}
	second := findRow(t, rows, "0022300002", 1)
	if rest, _ := second.Get(featDaysRest); math.Abs(rest-3) > 1e-9 {
		t.Fatalf("days_rest: got %v want 3", rest)
	}
}

func TestBuildDefenseAggregates(t *testing.T) {
	t.Parallel()

	// Guards score 10 then 20 against team 200 on consecutive days.
	basic := []boxscore.Row{
		basicRow("0022300001", day(0), 1, 100, 100, 200, "30:00", 10),
		basicRow("0022300002", day(1), 3, 300, 300, 200, "30:00", 20),
	}
	players := []player.Record{
		{PersonID: 1, Position: "G"},
		{PersonID: 3, Position: "G"},
	}

	rows, latest := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, players, nil)

	agg, ok := latest[defenseKey{PositionGroup: boxscore.GroupGuard, OpponentTeamID: 200}]
	if !ok {
		t.Fatalf("missing latest aggregate for guards vs 200")
	}
	if math.Abs(agg.Last10-15) > 1e-9 || math.Abs(agg.All-15) > 1e-9 {
		t.Fatalf("latest aggregate: got %+v want means of 15", agg)
	}

	// The day-0 row only sees its own date.
	first := findRow(t, rows, "0022300001", 1)
	if v, ok := first.Get(featOppPositionAll); !ok || math.Abs(v-10) > 1e-9 {
		t.Fatalf("day-0 all-time aggregate: got %v ok=%v want 10", v, ok)
	}
	second := findRow(t, rows, "0022300002", 3)
	if v, ok := second.Get(featOppPositionLast10); !ok || math.Abs(v-15) > 1e-9 {
		t.Fatalf("day-1 trailing-10 aggregate: got %v ok=%v want 15", v, ok)
	}
}

func TestBuildLeavesAggregatesAbsentWithoutHistory(t *testing.T) {
	t.Parallel()

	// Every row is under the playing-time floor, so no group qualifies.
	basic := []boxscore.Row{
		basicRow("0022300001", day(0), 1, 100, 100, 200, "8:00", 4),
	}

	rows, latest := NewHistoryBuilder(logging.NewNop()).Build(context.Background(), basic, nil, nil, nil)
	if len(latest) != 0 {
		t.Fatalf("expected no defense aggregates, got %d", len(latest))
	}
	got := rows[0]
	for _, name := range []string{featAvgPtsOpp, featAvgPtsOppPosition, featOppPositionAll, featOppPositionLast10} {
		if _, ok := got.Get(name); ok {
			t.Fatalf("feature %q should be absent without qualifying history", name)
		}
	}
}
