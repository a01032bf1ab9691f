package team

import "fmt"

// Team is one franchise from the league directory.
type Team struct {
	TeamID     int64
	Name       string
	Tricode    string // three-letter abbreviation, e.g. "BOS"
	City       string
	Conference string
	Division   string
}

func (t Team) Validate() error {
	if t.TeamID == 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Tricode == "" {
		return fmt.Errorf("team tricode is required")
	}

	return nil
}
