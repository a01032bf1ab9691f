package boxscore

import "time"

// Row is one player's line in a single game's traditional boxscore, already
// joined with the schedule entry for that game at ingestion time. Rows are
// immutable once written to the warehouse.
type Row struct {
	GameID                 string
	PersonID               int64
	TeamID                 int64
	GameDate               time.Time
	HomeTeamID             int64
	AwayTeamID             int64
	PlayerName             string
	Position               string // in-game slot (G/F/C), empty for bench players
	Comment                string // DNP explanation, empty when the player played
	Minutes                string // raw source text, e.g. "34:12"
	Points                 int
	ReboundsTotal          int
	Assists                int
	Steals                 int
	Blocks                 int
	Turnovers              int
	FieldGoalsMade         int
	FieldGoalsAttempted    int
	ThreePointersMade      int
	ThreePointersAttempted int
	FreeThrowsMade         int
	FreeThrowsAttempted    int
	Possessions            float64 // populated from the advanced feed when the basic one omits it
}

// AdvancedRow carries the derived efficiency metrics for one player line.
// Joined onto Row by Key; only fields Row does not already carry are merged.
type AdvancedRow struct {
	GameID          string
	PersonID        int64
	TeamID          int64
	UsagePct        float64
	TrueShootingPct float64
	EffectiveFGPct  float64
	OffensiveRating float64
	Possessions     float64
}

// Key identifies a single player line across the basic and advanced feeds.
type Key struct {
	GameID   string
	PersonID int64
	TeamID   int64
}

func (r Row) Key() Key {
	return Key{GameID: r.GameID, PersonID: r.PersonID, TeamID: r.TeamID}
}

func (r AdvancedRow) Key() Key {
	return Key{GameID: r.GameID, PersonID: r.PersonID, TeamID: r.TeamID}
}
