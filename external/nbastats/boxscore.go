package nbastats

import (
	"context"
	"fmt"
	"strings"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
)

type traditionalEnvelope struct {
	BoxScore traditionalGame `json:"boxScoreTraditional"`
}

type traditionalGame struct {
	GameID   string              `json:"gameId"`
	HomeTeam traditionalTeamSide `json:"homeTeam"`
	AwayTeam traditionalTeamSide `json:"awayTeam"`
}

type traditionalTeamSide struct {
	TeamID  int64               `json:"teamId"`
	Players []traditionalPlayer `json:"players"`
}

type traditionalPlayer struct {
	PersonID   int64            `json:"personId"`
	FirstName  string           `json:"firstName"`
	FamilyName string           `json:"familyName"`
	Position   string           `json:"position"`
	Comment    string           `json:"comment"`
	Statistics traditionalStats `json:"statistics"`
}

type traditionalStats struct {
	Minutes                string  `json:"minutes"`
	Points                 float64 `json:"points"`
	ReboundsTotal          float64 `json:"reboundsTotal"`
	Assists                float64 `json:"assists"`
	Steals                 float64 `json:"steals"`
	Blocks                 float64 `json:"blocks"`
	Turnovers              float64 `json:"turnovers"`
	FieldGoalsMade         float64 `json:"fieldGoalsMade"`
	FieldGoalsAttempted    float64 `json:"fieldGoalsAttempted"`
	ThreePointersMade      float64 `json:"threePointersMade"`
	ThreePointersAttempted float64 `json:"threePointersAttempted"`
	FreeThrowsMade         float64 `json:"freeThrowsMade"`
	FreeThrowsAttempted    float64 `json:"freeThrowsAttempted"`
}

type advancedEnvelope struct {
	BoxScore advancedGame `json:"boxScoreAdvanced"`
}

type advancedGame struct {
	GameID   string           `json:"gameId"`
	HomeTeam advancedTeamSide `json:"homeTeam"`
	AwayTeam advancedTeamSide `json:"awayTeam"`
}

type advancedTeamSide struct {
	TeamID  int64            `json:"teamId"`
	Players []advancedPlayer `json:"players"`
}

type advancedPlayer struct {
	PersonID   int64         `json:"personId"`
	Statistics advancedStats `json:"statistics"`
}

type advancedStats struct {
	UsagePct        float64 `json:"usagePercentage"`
	TrueShootingPct float64 `json:"trueShootingPercentage"`
	EffectiveFGPct  float64 `json:"effectiveFieldGoalPercentage"`
	OffensiveRating float64 `json:"offensiveRating"`
	Possessions     float64 `json:"possessions"`
}

// FetchBoxscoreBasic downloads one game's traditional boxscore. Rows carry
// team context (home/away ids) but no game date; the ingestion layer joins
// that from the schedule.
func (c *Client) FetchBoxscoreBasic(ctx context.Context, gameID string) ([]boxscore.Row, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}

	fullURL := c.statsBaseURL + "/stats/boxscoretraditionalv3?GameID=" + gameID +
		"&StartPeriod=0&EndPeriod=10&StartRange=0&EndRange=28800&RangeType=0"
	var envelope traditionalEnvelope
	if err := c.doJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch boxscore basic game=%s: %w", gameID, err)
	}

	game := envelope.BoxScore
	if strings.TrimSpace(game.GameID) == "" {
		game.GameID = gameID
	}

	rows := make([]boxscore.Row, 0, len(game.HomeTeam.Players)+len(game.AwayTeam.Players))
	rows = appendTraditionalRows(rows, game, game.HomeTeam)
	rows = appendTraditionalRows(rows, game, game.AwayTeam)
	return rows, nil
}

func appendTraditionalRows(rows []boxscore.Row, game traditionalGame, side traditionalTeamSide) []boxscore.Row {
	for _, p := range side.Players {
		if p.PersonID <= 0 {
			continue
		}
		stats := p.Statistics
		rows = append(rows, boxscore.Row{
			GameID:                 game.GameID,
			PersonID:               p.PersonID,
			TeamID:                 side.TeamID,
			HomeTeamID:             game.HomeTeam.TeamID,
			AwayTeamID:             game.AwayTeam.TeamID,
			PlayerName:             joinName(p.FirstName, p.FamilyName),
			Position:               strings.TrimSpace(p.Position),
			Comment:                strings.TrimSpace(p.Comment),
			Minutes:                strings.TrimSpace(stats.Minutes),
			Points:                 int(stats.Points),
			ReboundsTotal:          int(stats.ReboundsTotal),
			Assists:                int(stats.Assists),
			Steals:                 int(stats.Steals),
			Blocks:                 int(stats.Blocks),
			Turnovers:              int(stats.Turnovers),
			FieldGoalsMade:         int(stats.FieldGoalsMade),
			FieldGoalsAttempted:    int(stats.FieldGoalsAttempted),
			ThreePointersMade:      int(stats.ThreePointersMade),
			ThreePointersAttempted: int(stats.ThreePointersAttempted),
			FreeThrowsMade:         int(stats.FreeThrowsMade),
			FreeThrowsAttempted:    int(stats.FreeThrowsAttempted),
		})
	}
	return rows
}

// FetchBoxscoreAdvanced downloads one game's derived efficiency metrics.
func (c *Client) FetchBoxscoreAdvanced(ctx context.Context, gameID string) ([]boxscore.AdvancedRow, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}

	fullURL := c.statsBaseURL + "/stats/boxscoreadvancedv3?GameID=" + gameID +
		"&StartPeriod=0&EndPeriod=10&StartRange=0&EndRange=28800&RangeType=0"
	var envelope advancedEnvelope
	if err := c.doJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch boxscore advanced game=%s: %w", gameID, err)
	}

	game := envelope.BoxScore
	if strings.TrimSpace(game.GameID) == "" {
		game.GameID = gameID
	}

	rows := make([]boxscore.AdvancedRow, 0, len(game.HomeTeam.Players)+len(game.AwayTeam.Players))
	rows = appendAdvancedRows(rows, game.GameID, game.HomeTeam)
	rows = appendAdvancedRows(rows, game.GameID, game.AwayTeam)
	return rows, nil
}

func appendAdvancedRows(rows []boxscore.AdvancedRow, gameID string, side advancedTeamSide) []boxscore.AdvancedRow {
	for _, p := range side.Players {
		if p.PersonID <= 0 {
			continue
		}
		stats := p.Statistics
		rows = append(rows, boxscore.AdvancedRow{
			GameID:          gameID,
			PersonID:        p.PersonID,
			TeamID:          side.TeamID,
			UsagePct:        stats.UsagePct,
			TrueShootingPct: stats.TrueShootingPct,
			EffectiveFGPct:  stats.EffectiveFGPct,
			OffensiveRating: stats.OffensiveRating,
			Possessions:     stats.Possessions,
		})
	}
	return rows
}
