package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

func slateEntry(gameID string, date time.Time, homeID, awayID int64, status int) schedule.Entry {
	return schedule.Entry{
		GameID:     gameID,
		GameDate:   date,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Status:     status,
	}
}

func TestSlateExpandsRosters(t *testing.T) {
	t.Parallel()

	entries := []schedule.Entry{
		slateEntry("0022300100", day(10), 100, 200, schedule.StatusScheduled),
	}
	players := []player.Record{
		{PersonID: 1, Name: "Home Guard", TeamID: 100, Position: "G"},
		{PersonID: 2, Name: "Home Big", TeamID: 100, Position: "C-F"},
		{PersonID: 3, Name: "Away Wing", TeamID: 200, Position: "F-G"},
		{PersonID: 4, Name: "Elsewhere", TeamID: 300, Position: "G"},
	}

	rows := NewSlateBuilder(logging.NewNop()).Build(context.Background(), entries, players, day(10), 1)
	if len(rows) != 3 {
		t.Fatalf("expected 3 slate rows, got %d", len(rows))
	}

	byPerson := make(map[int64]FeatureRow, len(rows))
	for _, row := range rows {
		byPerson[row.PersonID] = row
	}

	guard := byPerson[1]
	if !guard.IsHome || guard.OpponentTeamID != 200 || guard.TeamID != 100 {
		t.Fatalf("home row wrong: %+v", guard)
	}
	if guard.Season != 2023 {
		t.Fatalf("season from game id: got %d want 2023", guard.Season)
	}
	if byPerson[2].PositionGroup != boxscore.GroupCenter {
		t.Fatalf("C-F listing should bucket to center, got %q", byPerson[2].PositionGroup)
	}
	wing := byPerson[3]
	if wing.IsHome || wing.OpponentTeamID != 100 || wing.PositionGroup != boxscore.GroupForward {
		t.Fatalf("away row wrong: %+v", wing)
	}
	if _, ok := byPerson[4]; ok {
		t.Fatalf("player on a team without a game must not appear")
	}
}

func TestSlateEmptyWhenNoGames(t *testing.T) {
	t.Parallel()

	entries := []schedule.Entry{
		slateEntry("0022300100", day(20), 100, 200, schedule.StatusScheduled),
	}
	players := []player.Record{{PersonID: 1, TeamID: 100, Position: "G"}}

	rows := NewSlateBuilder(logging.NewNop()).Build(context.Background(), entries, players, day(10), 1)
	if len(rows) != 0 {
		t.Fatalf("expected empty slate outside the window, got %d rows", len(rows))
	}
}

func TestSlateWindowAndStatusFilters(t *testing.T) {
	t.Parallel()

	entries := []schedule.Entry{
		slateEntry("0022300100", day(10), 100, 200, schedule.StatusScheduled),
		slateEntry("0022300101", day(11), 300, 400, schedule.StatusScheduled),
		slateEntry("0022300102", day(12), 100, 300, schedule.StatusScheduled), // past the window
		slateEntry("0022300099", day(10), 200, 300, schedule.StatusFinal),     // already played
	}
	players := []player.Record{
		{PersonID: 1, TeamID: 100, Position: "G"},
		{PersonID: 2, TeamID: 300, Position: "F"},
	}

	rows := NewSlateBuilder(logging.NewNop()).Build(context.Background(), entries, players, day(10), 2)

	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.GameID] = true
	}
	if !seen["0022300100"] || !seen["0022300101"] {
		t.Fatalf("window games missing: %v", seen)
	}
	if seen["0022300102"] {
		t.Fatalf("game past the window must be excluded")
	}
	if seen["0022300099"] {
		t.Fatalf("completed game must be excluded")
	}
}

func TestSlateDefaultsToOneDay(t *testing.T) {
	t.Parallel()

	entries := []schedule.Entry{
		slateEntry("0022300100", day(10), 100, 200, schedule.StatusScheduled),
		slateEntry("0022300101", day(11), 100, 200, schedule.StatusScheduled),
	}
	players := []player.Record{{PersonID: 1, TeamID: 100, Position: "G"}}

	rows := NewSlateBuilder(logging.NewNop()).Build(context.Background(), entries, players, day(10), 0)
	if len(rows) != 1 {
		t.Fatalf("zero days should mean a single-day slate, got %d rows", len(rows))
	}
	if rows[0].GameID != "0022300100" {
		t.Fatalf("wrong game in single-day slate: %s", rows[0].GameID)
	}
}

func TestSeasonFromDate(t *testing.T) {
	t.Parallel()

	if got := seasonFromDate(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)); got != 2023 {
		t.Fatalf("march date: got %d want 2023", got)
	}
	if got := seasonFromDate(time.Date(2024, time.October, 25, 0, 0, 0, 0, time.UTC)); got != 2024 {
		t.Fatalf("october date: got %d want 2024", got)
	}
}
