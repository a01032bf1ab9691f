package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

// defaultSlateDays is the window assembled when the caller does not ask for
// more: just the target date itself.
const defaultSlateDays = 1

// SlateBuilder expands upcoming schedule entries into one prospective row per
// rostered player, the frame the predictor scores.
type SlateBuilder struct {
	logger *logging.Logger
}

func NewSlateBuilder(logger *logging.Logger) *SlateBuilder {
	if logger == nil {
		logger = logging.Default()
	}
	return &SlateBuilder{logger: logger}
}

// Build returns a row for every (game, rostered player) pair in the window
// [from, from+days). Completed games are skipped; an empty slate is a normal
// outcome, not an error.
func (b *SlateBuilder) Build(
	ctx context.Context,
	entries []schedule.Entry,
	players []player.Record,
	from time.Time,
	days int,
) []FeatureRow {
	ctx, span := startUsecaseSpan(ctx, "SlateBuilder.Build")
	defer span.End()

	if days <= 0 {
		days = defaultSlateDays
	}
	windowStart := from.Truncate(24 * time.Hour)
	windowEnd := windowStart.AddDate(0, 0, days)

	rosterByTeam := make(map[int64][]player.Record)
	for _, p := range players {
		rosterByTeam[p.TeamID] = append(rosterByTeam[p.TeamID], p)
	}

	var rows []FeatureRow
	games := 0
	for _, entry := range entries {
		if entry.Completed() {
			continue
		}
		if entry.GameDate.Before(windowStart) || !entry.GameDate.Before(windowEnd) {
			continue
		}
		games++

		season, ok := boxscore.ExtractSeason(entry.GameID)
		if !ok {
			season = seasonFromDate(entry.GameDate)
		}

		rows = append(rows, sideRows(entry, rosterByTeam[entry.HomeTeamID], season, true)...)
		rows = append(rows, sideRows(entry, rosterByTeam[entry.AwayTeamID], season, false)...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GameID != rows[j].GameID {
			return rows[i].GameID < rows[j].GameID
		}
		return rows[i].PersonID < rows[j].PersonID
	})

	b.logger.InfoContext(ctx, "assembled prediction slate",
		"games", games, "rows", len(rows),
		"from", windowStart.Format("2006-01-02"), "days", days)
	return rows
}

func sideRows(entry schedule.Entry, roster []player.Record, season int, isHome bool) []FeatureRow {
	opponent := entry.HomeTeamID
	teamID := entry.AwayTeamID
	if isHome {
		opponent = entry.AwayTeamID
		teamID = entry.HomeTeamID
	}

	rows := make([]FeatureRow, 0, len(roster))
	for _, p := range roster {
		rows = append(rows, FeatureRow{
			GameID:         entry.GameID,
			GameDate:       entry.GameDate,
			PersonID:       p.PersonID,
			PlayerName:     p.Name,
			TeamID:         teamID,
			OpponentTeamID: opponent,
			PositionGroup:  boxscore.ListedPositionGroup(p.Position),
			Season:         season,
			IsHome:         isHome,
		})
	}
	return rows
}

// seasonFromDate maps a calendar date onto the season starting that year,
// with the July boundary splitting seasons.
func seasonFromDate(date time.Time) int {
	if date.Month() >= time.July {
		return date.Year()
	}
	return date.Year() - 1
}
