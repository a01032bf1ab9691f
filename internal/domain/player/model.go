package player

import "fmt"

// Record is one roster entry from the league player index for a season.
type Record struct {
	PersonID int64
	Name     string
	Slug     string
	TeamID   int64
	Position string // listed roster position, e.g. "G", "F-C"
	Height   string
	Weight   string
	Active   bool
}

func (r Record) Validate() error {
	if r.PersonID == 0 {
		return fmt.Errorf("player person id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
