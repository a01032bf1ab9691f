package nbastats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/domain/team"
)

const scheduleDateLayout = "2006-01-02"

// fullScheduleEnvelope mirrors the mobile full-schedule feed: months (lscd)
// wrapping a month schedule (mscd) wrapping games (g).
type fullScheduleEnvelope struct {
	Months []struct {
		Month struct {
			Games []scheduleGame `json:"g"`
		} `json:"mscd"`
	} `json:"lscd"`
}

type scheduleGame struct {
	GameID     string          `json:"gid"`
	Date       string          `json:"gdte"`
	Status     int             `json:"st"`
	StatusText string          `json:"stt"`
	Home       scheduleTeamRef `json:"h"`
	Visitor    scheduleTeamRef `json:"v"`
}

type scheduleTeamRef struct {
	TeamID  int64  `json:"tid"`
	Tricode string `json:"ta"`
	City    string `json:"tc"`
	Name    string `json:"tn"`
}

// FetchSeason downloads the full-season schedule and derives the team
// directory from the same payload. Games with no id or an unparseable date
// are dropped.
func (c *Client) FetchSeason(ctx context.Context, season string) ([]schedule.Entry, []team.Team, error) {
	year, err := SeasonStartYear(season)
	if err != nil {
		return nil, nil, err
	}

	fullURL := fmt.Sprintf("%s/data/10s/v2015/json/mobile_teams/nba/%d/league/00_full_schedule.json", c.dataBaseURL, year)
	var envelope fullScheduleEnvelope
	if err := c.doJSON(ctx, fullURL, &envelope); err != nil {
		return nil, nil, fmt.Errorf("fetch full schedule season=%s: %w", season, err)
	}

	entries := make([]schedule.Entry, 0, 1312)
	teamsByID := make(map[int64]team.Team, 32)
	for _, month := range envelope.Months {
		for _, game := range month.Month.Games {
			gameID := strings.TrimSpace(game.GameID)
			if gameID == "" {
				continue
			}
			gameDate, err := time.Parse(scheduleDateLayout, strings.TrimSpace(game.Date))
			if err != nil {
				c.logger.WarnContext(ctx, "skip schedule game with bad date", "game_id", gameID, "date", game.Date)
				continue
			}

			entries = append(entries, schedule.Entry{
				GameID:      gameID,
				GameDate:    gameDate,
				HomeTeamID:  game.Home.TeamID,
				AwayTeamID:  game.Visitor.TeamID,
				HomeTricode: strings.TrimSpace(game.Home.Tricode),
				AwayTricode: strings.TrimSpace(game.Visitor.Tricode),
				Status:      game.Status,
				StatusText:  strings.TrimSpace(game.StatusText),
			})
			upsertTeam(teamsByID, game.Home)
			upsertTeam(teamsByID, game.Visitor)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].GameDate.Equal(entries[j].GameDate) {
			return entries[i].GameDate.Before(entries[j].GameDate)
		}
		return entries[i].GameID < entries[j].GameID
	})

	teams := make([]team.Team, 0, len(teamsByID))
	for _, t := range teamsByID {
		teams = append(teams, t)
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })

	return entries, teams, nil
}

func upsertTeam(teams map[int64]team.Team, ref scheduleTeamRef) {
	if ref.TeamID <= 0 {
		return
	}
	current := teams[ref.TeamID]
	current.TeamID = ref.TeamID
	if current.Tricode == "" {
		current.Tricode = strings.TrimSpace(ref.Tricode)
	}
	if current.City == "" {
		current.City = strings.TrimSpace(ref.City)
	}
	if current.Name == "" {
		current.Name = strings.TrimSpace(ref.Name)
	}
	teams[ref.TeamID] = current
}
