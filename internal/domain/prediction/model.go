package prediction

import "time"

// Row is one player's predicted point total for an upcoming game.
type Row struct {
	GameID          string
	GameDate        time.Time
	TeamID          int64
	OpponentTeamID  int64
	PersonID        int64
	PlayerName      string
	PredictedPoints float64
	RunID           string
}
