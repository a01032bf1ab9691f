package schedule

import "time"

// Game statuses as carried by the league schedule feed.
const (
	StatusScheduled = 1
	StatusLive      = 2
	StatusFinal     = 3
)

// Entry is one scheduled game.
type Entry struct {
	GameID      string
	GameDate    time.Time
	HomeTeamID  int64
	AwayTeamID  int64
	HomeTricode string
	AwayTricode string
	Status      int
	StatusText  string
}

// Completed reports whether the game has gone final and its boxscores exist.
func (e Entry) Completed() bool {
	return e.Status == StatusFinal
}
