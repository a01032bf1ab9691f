package usecase

import "time"

// FeatureRow is one (player, game) observation flowing through the feature
// pipeline. Engineered values live in Values keyed by canonical feature name;
// a missing feature is an absent key, never a zero.
type FeatureRow struct {
	GameID         string
	GameDate       time.Time
	PersonID       int64
	PlayerName     string
	TeamID         int64
	OpponentTeamID int64
	PositionGroup  string
	Season         int
	IsHome         bool
	MinutesPlayed  float64
	Possessions    float64

	Values map[string]float64
}

func (r *FeatureRow) Set(name string, value float64) {
	if r.Values == nil {
		r.Values = make(map[string]float64)
	}
	r.Values[name] = value
}

func (r *FeatureRow) Get(name string) (float64, bool) {
	value, ok := r.Values[name]
	return value, ok
}

// defenseKey addresses the opponent-defense aggregates: how many points a
// given position group scores against a given team.
type defenseKey struct {
	PositionGroup  string
	OpponentTeamID int64
}

// DefenseAggregate carries the three windows of the position-vs-opponent
// scoring average.
type DefenseAggregate struct {
	Last10 float64
	Last20 float64
	All    float64
}

// Canonical feature names produced by the historical builder.
const (
	featPoints            = "points"
	featFieldGoalsMade    = "field_goals_made"
	featThreePointersMade = "three_pointers_made"
	featFreeThrowsMade    = "free_throws_made"
	featUsagePct          = "usage_pct"
	featTrueShootingPct   = "true_shooting_pct"
	featEffectiveFGPct    = "effective_fg_pct"
	featOffensiveRating   = "offensive_rating"

	featHeight = "height"
	featWeight = "weight"

	featAvgPtsOpp         = "avg_pts_opp"
	featAvgPtsOppPosition = "avg_pts_opp_position"
	featSeasonAvg         = "season_avg"
	featDaysRest          = "days_rest"
	featOppPositionAll    = "avg_pts_opp_position_all"
	featOppPositionLast10 = "avg_pts_opp_position_last_10"
	featOppPositionLast20 = "avg_pts_opp_position_last_20"
)

// rateStats get per-36 and per-possession variants, and those variants get
// rolling means.
var rateStats = []string{
	featPoints,
	featFieldGoalsMade,
	featThreePointersMade,
	featFreeThrowsMade,
	featUsagePct,
	featTrueShootingPct,
	featEffectiveFGPct,
	featOffensiveRating,
}

// opponentDefenseStats get the rate variants but no extra rolling window;
// they are already windowed by construction.
var opponentDefenseStats = []string{
	featOppPositionAll,
	featOppPositionLast10,
	featOppPositionLast20,
}
