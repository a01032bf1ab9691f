package boxscore

import (
	"strconv"
	"strings"
	"time"
)

// Position groups collapse the source's combo labels (G-F, F-C, ...) into the
// coarse buckets the feature pipeline keys on.
const (
	GroupGuard   = "G"
	GroupForward = "F"
	GroupCenter  = "C"
)

// ExtractSeason derives a season start-year from a game identifier. Two
// encodings exist upstream: the league's 10-char "00"-prefixed ids, where
// digits 3-4 are the season offset from 2000, and 8-digit YYYYMMDD calendar
// ids. ok is false for empty or unrecognized input; it never panics.
func ExtractSeason(gameID string) (season int, ok bool) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return 0, false
	}

	switch len(gameID) {
	case 10:
		if !strings.HasPrefix(gameID, "00") {
			return 0, false
		}
		offset, err := strconv.Atoi(gameID[2:4])
		if err != nil {
			return 0, false
		}
		return 2000 + offset, true
	case 8:
		parsed, err := time.Parse("20060102", gameID)
		if err != nil {
			return 0, false
		}
		// Seasons straddle the calendar year boundary: games from July
		// onward belong to the season starting that year.
		if parsed.Month() >= time.July {
			return parsed.Year(), true
		}
		return parsed.Year() - 1, true
	default:
		return 0, false
	}
}

// ParseMinutes converts the source's "MM:SS" or "H:MM:SS" duration text into
// float minutes. Empty or unparseable input yields 0; plain numeric text
// passes through. Total over all inputs, never panics.
func ParseMinutes(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	parts := strings.Split(value, ":")
	switch len(parts) {
	case 1:
		minutes, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		return minutes
	case 2:
		minutes, errM := strconv.ParseFloat(parts[0], 64)
		seconds, errS := strconv.ParseFloat(parts[1], 64)
		if errM != nil || errS != nil {
			return 0
		}
		return minutes + seconds/60
	case 3:
		hours, errH := strconv.ParseFloat(parts[0], 64)
		minutes, errM := strconv.ParseFloat(parts[1], 64)
		seconds, errS := strconv.ParseFloat(parts[2], 64)
		if errH != nil || errM != nil || errS != nil {
			return 0
		}
		return hours*60 + minutes + seconds/60
	default:
		return 0
	}
}

// PositionGroup buckets a historical boxscore line using both the in-game
// slot and the player's listed roster position. Bench lines (empty in-game
// slot) fall back to the listed position; combo listings collapse to their
// primary letter. Lines matching neither rule keep the raw in-game slot so
// they group under "other"-style labels instead of disappearing.
func PositionGroup(inGame, listed string) string {
	if inGame == "" {
		return ListedPositionGroup(listed)
	}

	switch {
	case inGame == GroupGuard && isGuardListing(listed):
		return GroupGuard
	case inGame == GroupForward && isForwardListing(listed):
		return GroupForward
	case inGame == GroupCenter && isCenterListing(listed):
		return GroupCenter
	default:
		return inGame
	}
}

// ListedPositionGroup buckets a roster listing alone. Used for the future
// slate, where no in-game slot exists yet.
func ListedPositionGroup(listed string) string {
	switch {
	case isGuardListing(listed):
		return GroupGuard
	case isForwardListing(listed):
		return GroupForward
	case isCenterListing(listed):
		return GroupCenter
	default:
		return listed
	}
}

func isGuardListing(listed string) bool {
	return listed == "G" || listed == "G-F"
}

func isForwardListing(listed string) bool {
	return listed == "F" || listed == "F-G" || listed == "F-C"
}

func isCenterListing(listed string) bool {
	return listed == "C" || listed == "C-F"
}
