package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

// defaultDaysRest is assumed for a player's first observed game.
const defaultDaysRest = 5

// minutesForDefense is the playing-time floor for a row to count toward the
// opponent-defense and season averages. Garbage-time lines would drown the
// signal otherwise.
const minutesForDefense = 15.0

// HistoryBuilder turns raw warehouse boxscores into enriched per-game
// observations: positions joined in, advanced metrics merged, and the
// opponent-defense aggregates computed.
type HistoryBuilder struct {
	logger *logging.Logger
}

func NewHistoryBuilder(logger *logging.Logger) *HistoryBuilder {
	if logger == nil {
		logger = logging.Default()
	}
	return &HistoryBuilder{logger: logger}
}

// Build runs the enrichment steps over the historical boxscores. The second
// return value holds the latest defense aggregate per (position group,
// opponent), which the slate assembler reuses for upcoming games.
func (b *HistoryBuilder) Build(
	ctx context.Context,
	basic []boxscore.Row,
	advanced []boxscore.AdvancedRow,
	players []player.Record,
	entries []schedule.Entry,
) ([]FeatureRow, map[defenseKey]DefenseAggregate) {
	ctx, span := startUsecaseSpan(ctx, "HistoryBuilder.Build")
	defer span.End()

	playerByID := make(map[int64]player.Record, len(players))
	for _, p := range players {
		playerByID[p.PersonID] = p
	}
	advancedByKey := make(map[boxscore.Key]boxscore.AdvancedRow, len(advanced))
	for _, row := range advanced {
		advancedByKey[row.Key()] = row
	}
	entryByGameID := make(map[string]schedule.Entry, len(entries))
	for _, entry := range entries {
		entryByGameID[entry.GameID] = entry
	}

	rows := make([]FeatureRow, 0, len(basic))
	dropped := 0
	for _, raw := range basic {
		// A row is a DNP only when it carries a comment and no minutes.
		if raw.Comment != "" && strings.TrimSpace(raw.Minutes) == "" {
			dropped++
			continue
		}

		gameDate := raw.GameDate
		homeTeamID := raw.HomeTeamID
		awayTeamID := raw.AwayTeamID
		if entry, ok := entryByGameID[raw.GameID]; ok {
			if gameDate.IsZero() {
				gameDate = entry.GameDate
			}
			if homeTeamID == 0 {
				homeTeamID = entry.HomeTeamID
			}
			if awayTeamID == 0 {
				awayTeamID = entry.AwayTeamID
			}
		}

		isHome := raw.TeamID == homeTeamID
		opponent := homeTeamID
		if isHome {
			opponent = awayTeamID
		}

		season, _ := boxscore.ExtractSeason(raw.GameID)
		listed := playerByID[raw.PersonID]

		row := FeatureRow{
			GameID:         raw.GameID,
			GameDate:       gameDate,
			PersonID:       raw.PersonID,
			PlayerName:     raw.PlayerName,
			TeamID:         raw.TeamID,
			OpponentTeamID: opponent,
			PositionGroup:  boxscore.PositionGroup(raw.Position, listed.Position),
			Season:         season,
			IsHome:         isHome,
			MinutesPlayed:  boxscore.ParseMinutes(raw.Minutes),
			Possessions:    raw.Possessions,
		}

		if inches, ok := parseHeightInches(listed.Height); ok {
			row.Set(featHeight, inches)
		}
		if pounds, ok := parseWeightPounds(listed.Weight); ok {
			row.Set(featWeight, pounds)
		}

		row.Set(featPoints, float64(raw.Points))
		row.Set(featFieldGoalsMade, float64(raw.FieldGoalsMade))
		row.Set(featThreePointersMade, float64(raw.ThreePointersMade))
		row.Set(featFreeThrowsMade, float64(raw.FreeThrowsMade))

		if adv, ok := advancedByKey[raw.Key()]; ok {
			row.Set(featUsagePct, adv.UsagePct)
			row.Set(featTrueShootingPct, adv.TrueShootingPct)
			row.Set(featEffectiveFGPct, adv.EffectiveFGPct)
			row.Set(featOffensiveRating, adv.OffensiveRating)
			if row.Possessions == 0 {
				row.Possessions = adv.Possessions
			}
		}

		rows = append(rows, row)
	}

	sortChronologically(rows)

	b.applyOpponentAverages(rows)
	b.applySeasonAverages(rows)
	b.applyDaysRest(rows)
	latest := b.applyDefenseAggregates(rows)

	b.logger.InfoContext(ctx, "built historical feature rows",
		"rows", len(rows), "dropped_dnp", dropped, "defense_groups", len(latest))
	return rows, latest
}

// sortChronologically orders rows by game date, keeping the input order
// inside a date so repeated runs produce identical output.
func sortChronologically(rows []FeatureRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GameDate.Before(rows[j].GameDate)
	})
}

func (b *HistoryBuilder) applyOpponentAverages(rows []FeatureRow) {
	type acc struct {
		sum   float64
		count int
	}
	byOpponent := make(map[int64]*acc)
	byOpponentPosition := make(map[defenseKey]*acc)

	for _, row := range rows {
		if row.MinutesPlayed <= minutesForDefense {
			continue
		}
		points, ok := row.Get(featPoints)
		if !ok {
			continue
		}
		opp := byOpponent[row.OpponentTeamID]
		if opp == nil {
			opp = &acc{}
			byOpponent[row.OpponentTeamID] = opp
		}
		opp.sum += points
		opp.count++

		key := defenseKey{PositionGroup: row.PositionGroup, OpponentTeamID: row.OpponentTeamID}
		pos := byOpponentPosition[key]
		if pos == nil {
			pos = &acc{}
			byOpponentPosition[key] = pos
		}
		pos.sum += points
		pos.count++
	}

	for i := range rows {
		if opp, ok := byOpponent[rows[i].OpponentTeamID]; ok && opp.count > 0 {
			rows[i].Set(featAvgPtsOpp, opp.sum/float64(opp.count))
		}
		key := defenseKey{PositionGroup: rows[i].PositionGroup, OpponentTeamID: rows[i].OpponentTeamID}
		if pos, ok := byOpponentPosition[key]; ok && pos.count > 0 {
			rows[i].Set(featAvgPtsOppPosition, pos.sum/float64(pos.count))
		}
	}
}

// applySeasonAverages sets each row's season-to-date scoring mean, built from
// the player's qualifying rows seen so far this season (current row included
// when it qualifies).
func (b *HistoryBuilder) applySeasonAverages(rows []FeatureRow) {
	type key struct {
		personID int64
		season   int
	}
	type acc struct {
		sum   float64
		count int
	}
	running := make(map[key]*acc)

	for i := range rows {
		k := key{personID: rows[i].PersonID, season: rows[i].Season}
		state := running[k]
		if state == nil {
			state = &acc{}
			running[k] = state
		}
		if points, ok := rows[i].Get(featPoints); ok && rows[i].MinutesPlayed > minutesForDefense {
			state.sum += points
			state.count++
		}
		if state.count > 0 {
			rows[i].Set(featSeasonAvg, state.sum/float64(state.count))
		}
	}
}

func (b *HistoryBuilder) applyDaysRest(rows []FeatureRow) {
	lastGame := make(map[int64]time.Time)
	for i := range rows {
		if previous, ok := lastGame[rows[i].PersonID]; ok {
			rows[i].Set(featDaysRest, rows[i].GameDate.Sub(previous).Hours()/24)
		} else {
			rows[i].Set(featDaysRest, defaultDaysRest)
		}
		lastGame[rows[i].PersonID] = rows[i].GameDate
	}
}

// applyDefenseAggregates computes, per (position group, opponent), the
// trailing-10, trailing-20, and all-time means of the per-date scoring
// average, then joins each row with the aggregate as of its game date.
// Groups with no qualifying history leave the features absent.
func (b *HistoryBuilder) applyDefenseAggregates(rows []FeatureRow) map[defenseKey]DefenseAggregate {
	type acc struct {
		sum   float64
		count int
	}
	daily := make(map[defenseKey]map[time.Time]*acc)

	for _, row := range rows {
		if row.MinutesPlayed <= minutesForDefense {
			continue
		}
		points, ok := row.Get(featPoints)
		if !ok {
			continue
		}
		key := defenseKey{PositionGroup: row.PositionGroup, OpponentTeamID: row.OpponentTeamID}
		byDate := daily[key]
		if byDate == nil {
			byDate = make(map[time.Time]*acc)
			daily[key] = byDate
		}
		state := byDate[row.GameDate]
		if state == nil {
			state = &acc{}
			byDate[row.GameDate] = state
		}
		state.sum += points
		state.count++
	}

	type series struct {
		dates      []time.Time
		aggregates []DefenseAggregate
	}
	byKey := make(map[defenseKey]series, len(daily))
	latest := make(map[defenseKey]DefenseAggregate, len(daily))

	for key, byDate := range daily {
		dates := make([]time.Time, 0, len(byDate))
		for date := range byDate {
			dates = append(dates, date)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		dailyAvg := make([]float64, len(dates))
		for i, date := range dates {
			state := byDate[date]
			dailyAvg[i] = state.sum / float64(state.count)
		}

		aggregates := make([]DefenseAggregate, len(dates))
		var total float64
		for i := range dates {
			total += dailyAvg[i]
			aggregates[i] = DefenseAggregate{
				Last10: trailingMean(dailyAvg, i, 10),
				Last20: trailingMean(dailyAvg, i, 20),
				All:    total / float64(i+1),
			}
		}

		byKey[key] = series{dates: dates, aggregates: aggregates}
		latest[key] = aggregates[len(aggregates)-1]
	}

	for i := range rows {
		key := defenseKey{PositionGroup: rows[i].PositionGroup, OpponentTeamID: rows[i].OpponentTeamID}
		s, ok := byKey[key]
		if !ok {
			continue
		}
		// Aggregate as of the row's date: latest series point not after it.
		idx := sort.Search(len(s.dates), func(j int) bool { return s.dates[j].After(rows[i].GameDate) }) - 1
		if idx < 0 {
			continue
		}
		agg := s.aggregates[idx]
		rows[i].Set(featOppPositionLast10, agg.Last10)
		rows[i].Set(featOppPositionLast20, agg.Last20)
		rows[i].Set(featOppPositionAll, agg.All)
	}

	return latest
}

// parseHeightInches converts the roster's "6-7" feet-inches listing to total
// inches. Unlisted or malformed heights report false.
func parseHeightInches(listing string) (float64, bool) {
	feet, inches, ok := strings.Cut(strings.TrimSpace(listing), "-")
	if !ok {
		return 0, false
	}
	ft, errF := strconv.Atoi(feet)
	in, errI := strconv.Atoi(inches)
	if errF != nil || errI != nil || ft <= 0 || in < 0 {
		return 0, false
	}
	return float64(ft*12 + in), true
}

func parseWeightPounds(listing string) (float64, bool) {
	pounds, err := strconv.ParseFloat(strings.TrimSpace(listing), 64)
	if err != nil || pounds <= 0 {
		return 0, false
	}
	return pounds, true
}

func trailingMean(values []float64, end, window int) float64 {
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	for i := start; i <= end; i++ {
		sum += values[i]
	}
	return sum / float64(end-start+1)
}
