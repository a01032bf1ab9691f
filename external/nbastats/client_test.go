package nbastats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hoopsight/pointcast/internal/platform/logging"
)

const fullScheduleFixture = `{
  "lscd": [
    {
      "mscd": {
        "mon": "January",
        "g": [
          {
            "gid": "0022300456",
            "gdte": "2024-01-12",
            "st": 3,
            "stt": "Final",
            "h": {"tid": 1610612738, "ta": "BOS", "tc": "Boston", "tn": "Celtics"},
            "v": {"tid": 1610612747, "ta": "LAL", "tc": "Los Angeles", "tn": "Lakers"}
          },
          {
            "gid": "0022300470",
            "gdte": "2024-01-14",
            "st": 1,
            "stt": "7:30 pm ET",
            "h": {"tid": 1610612747, "ta": "LAL", "tc": "Los Angeles", "tn": "Lakers"},
            "v": {"tid": 1610612744, "ta": "GSW", "tc": "Golden State", "tn": "Warriors"}
          },
          {
            "gid": "",
            "gdte": "2024-01-15",
            "st": 1,
            "stt": "TBD",
            "h": {"tid": 0},
            "v": {"tid": 0}
          }
        ]
      }
    }
  ]
}`

const playerIndexFixture = `{
  "resultSets": [
    {
      "name": "PlayerIndex",
      "headers": ["PERSON_ID", "PLAYER_LAST_NAME", "PLAYER_FIRST_NAME", "PLAYER_SLUG", "TEAM_ID", "POSITION", "HEIGHT", "WEIGHT", "ROSTER_STATUS"],
      "rowSet": [
        [1629029, "Doncic", "Luka", "luka-doncic", 1610612742, "F-G", "6-7", "230", 1],
        [203999, "Jokic", "Nikola", "nikola-jokic", 1610612743, "C", "6-11", "284", 1],
        [null, "Ghost", "Row", "", 0, "", "", "", 0]
      ]
    }
  ]
}`

const boxscoreBasicFixture = `{
  "boxScoreTraditional": {
    "gameId": "0022300456",
    "homeTeam": {
      "teamId": 1610612738,
      "players": [
        {
          "personId": 1628369,
          "firstName": "Jayson",
          "familyName": "Tatum",
          "position": "F",
          "comment": "",
          "statistics": {
            "minutes": "37:12",
            "points": 30,
            "reboundsTotal": 8,
            "assists": 5,
            "steals": 1,
            "blocks": 0,
            "turnovers": 3,
            "fieldGoalsMade": 11,
            "fieldGoalsAttempted": 22,
            "threePointersMade": 4,
            "threePointersAttempted": 10,
            "freeThrowsMade": 4,
            "freeThrowsAttempted": 5
          }
        },
        {
          "personId": 1629684,
          "firstName": "Bench",
          "familyName": "Player",
          "position": "",
          "comment": "DNP - Coach's Decision",
          "statistics": {
            "minutes": "",
            "points": 0
          }
        }
      ]
    },
    "awayTeam": {
      "teamId": 1610612747,
      "players": [
        {
          "personId": 2544,
          "firstName": "LeBron",
          "familyName": "James",
          "position": "F",
          "comment": "",
          "statistics": {
            "minutes": "36:02",
            "points": 28,
            "reboundsTotal": 7,
            "assists": 9,
            "steals": 2,
            "blocks": 1,
            "turnovers": 4,
            "fieldGoalsMade": 10,
            "fieldGoalsAttempted": 20,
            "threePointersMade": 2,
            "threePointersAttempted": 6,
            "freeThrowsMade": 6,
            "freeThrowsAttempted": 8
          }
        }
      ]
    }
  }
}`

const boxscoreAdvancedFixture = `{
  "boxScoreAdvanced": {
    "gameId": "0022300456",
    "homeTeam": {
      "teamId": 1610612738,
      "players": [
        {
          "personId": 1628369,
          "statistics": {
            "usagePercentage": 0.312,
            "trueShootingPercentage": 0.615,
            "effectiveFieldGoalPercentage": 0.591,
            "offensiveRating": 118.4,
            "possessions": 74.1
          }
        }
      ]
    },
    "awayTeam": {
      "teamId": 1610612747,
      "players": [
        {
          "personId": 2544,
          "statistics": {
            "usagePercentage": 0.294,
            "trueShootingPercentage": 0.644,
            "effectiveFieldGoalPercentage": 0.55,
            "offensiveRating": 121.0,
            "possessions": 72.8
          }
        }
      ]
    }
  }
}`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		StatsBaseURL: server.URL,
		DataBaseURL:  server.URL,
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		MinInterval:  time.Millisecond,
		Logger:       logging.NewNop(),
	})
}

func TestFetchSeason(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fullScheduleFixture))
	}))

	entries, teams, err := client.FetchSeason(context.Background(), "2023-24")
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 schedule entries (id-less game dropped), got %d", len(entries))
	}
	first := entries[0]
	if first.GameID != "0022300456" || first.HomeTeamID != 1610612738 || first.AwayTeamID != 1610612747 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if !first.Completed() {
		t.Fatalf("status 3 game should be completed: %+v", first)
	}
	if entries[1].Completed() {
		t.Fatalf("status 1 game should not be completed: %+v", entries[1])
	}
	if want := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC); !first.GameDate.Equal(want) {
		t.Fatalf("game date mismatch: got %v want %v", first.GameDate, want)
	}

	if len(teams) != 3 {
		t.Fatalf("expected 3 teams derived from schedule, got %d", len(teams))
	}
	if teams[0].TeamID != 1610612738 || teams[0].Tricode != "BOS" || teams[0].City != "Boston" {
		t.Fatalf("unexpected first team: %+v", teams[0])
	}
}

func TestFetchSeasonRejectsBadLabel(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request should not be sent for a bad season label")
	}))

	if _, _, err := client.FetchSeason(context.Background(), "not-a-season"); err == nil {
		t.Fatalf("expected error for invalid season label")
	}
}

func TestFetchPlayerIndex(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("Season"); got != "2023-24" {
			t.Errorf("unexpected Season query: %q", got)
		}
		w.Write([]byte(playerIndexFixture))
	}))

	records, err := client.FetchPlayerIndex(context.Background(), "2023-24", "")
	if err != nil {
		t.Fatalf("fetch player index: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (null person id dropped), got %d", len(records))
	}

	jokic := records[0]
	if jokic.PersonID != 203999 || jokic.Name != "Nikola Jokic" || jokic.Position != "C" {
		t.Fatalf("unexpected record: %+v", jokic)
	}
	if !jokic.Active {
		t.Fatalf("roster status 1 should be active: %+v", jokic)
	}
	if records[1].PersonID != 1629029 || records[1].Position != "F-G" {
		t.Fatalf("unexpected record: %+v", records[1])
	}
}

func TestFetchBoxscoreBasic(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("GameID"); got != "0022300456" {
			t.Errorf("unexpected GameID query: %q", got)
		}
		w.Write([]byte(boxscoreBasicFixture))
	}))

	rows, err := client.FetchBoxscoreBasic(context.Background(), "0022300456")
	if err != nil {
		t.Fatalf("fetch boxscore basic: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 player rows, got %d", len(rows))
	}

	tatum := rows[0]
	if tatum.PersonID != 1628369 || tatum.PlayerName != "Jayson Tatum" || tatum.Points != 30 {
		t.Fatalf("unexpected row: %+v", tatum)
	}
	if tatum.TeamID != 1610612738 || tatum.HomeTeamID != 1610612738 || tatum.AwayTeamID != 1610612747 {
		t.Fatalf("team context missing: %+v", tatum)
	}
	if tatum.Minutes != "37:12" {
		t.Fatalf("minutes should stay raw text, got %q", tatum.Minutes)
	}

	dnp := rows[1]
	if dnp.Comment == "" || dnp.Minutes != "" {
		t.Fatalf("DNP row should keep comment and empty minutes: %+v", dnp)
	}

	lebron := rows[2]
	if lebron.TeamID != 1610612747 || lebron.Points != 28 {
		t.Fatalf("away side row mismatch: %+v", lebron)
	}
}

func TestFetchBoxscoreAdvanced(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(boxscoreAdvancedFixture))
	}))

	rows, err := client.FetchBoxscoreAdvanced(context.Background(), "0022300456")
	if err != nil {
		t.Fatalf("fetch boxscore advanced: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UsagePct != 0.312 || rows[0].OffensiveRating != 118.4 || rows[0].Possessions != 74.1 {
		t.Fatalf("unexpected advanced row: %+v", rows[0])
	}
}

func TestDoJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Write([]byte(boxscoreAdvancedFixture))
	}))
	client.retryCfg.BaseDelay = time.Millisecond
	client.retryCfg.MaxJitter = 0

	rows, err := client.FetchBoxscoreAdvanced(context.Background(), "0022300456")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after retry, got %d", len(rows))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestDoJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such game", http.StatusNotFound)
	}))

	if _, err := client.FetchBoxscoreAdvanced(context.Background(), "0022399999"); err == nil {
		t.Fatalf("expected error for 404 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not retry, got %d attempts", calls.Load())
	}
}

func TestSeasonStartYear(t *testing.T) {
	t.Parallel()

	if year, err := SeasonStartYear("2024-25"); err != nil || year != 2024 {
		t.Fatalf("SeasonStartYear(2024-25) = %d, %v", year, err)
	}
	if _, err := SeasonStartYear("garbage"); err == nil {
		t.Fatalf("expected error for bad label")
	}
}
