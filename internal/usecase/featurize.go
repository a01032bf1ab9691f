package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hoopsight/pointcast/internal/platform/logging"
)

// minutesPerGame scales raw counting stats to a full-workload rate.
const minutesPerGame = 36.0

// rollingWindows are the trailing-game windows computed per player for every
// rate variant.
var rollingWindows = []int{5, 10, 20}

// Featurizer derives the model-ready columns from enriched historical rows:
// per-36 and per-possession rates, then trailing rolling means per player.
type Featurizer struct {
	logger *logging.Logger
}

func NewFeaturizer(logger *logging.Logger) *Featurizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Featurizer{logger: logger}
}

// Engineer mutates rows in place and returns them sorted chronologically.
// Rows with zero minutes or possessions simply skip the corresponding rate
// variant; the feature stays absent rather than dividing by zero.
func (f *Featurizer) Engineer(ctx context.Context, rows []FeatureRow) []FeatureRow {
	_, span := startUsecaseSpan(ctx, "Featurizer.Engineer")
	defer span.End()

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].GameDate.Equal(rows[j].GameDate) {
			return rows[i].GameDate.Before(rows[j].GameDate)
		}
		return rows[i].GameID < rows[j].GameID
	})

	for i := range rows {
		addRateVariants(&rows[i])
	}
	addRollingMeans(rows)
	return rows
}

func addRateVariants(row *FeatureRow) {
	for _, name := range append(append([]string{}, rateStats...), opponentDefenseStats...) {
		value, ok := row.Get(name)
		if !ok {
			continue
		}
		if row.MinutesPlayed > 0 {
			row.Set(name+"_per36", value/row.MinutesPlayed*minutesPerGame)
		}
		if row.Possessions > 0 {
			row.Set(name+"_per_poss", value/row.Possessions)
		}
	}
}

// rollingBases lists every column that gets trailing means. The opponent
// aggregates are excluded: they are already trailing windows.
func rollingBases() []string {
	bases := make([]string, 0, len(rateStats)*3)
	for _, name := range rateStats {
		bases = append(bases, name, name+"_per36", name+"_per_poss")
	}
	return bases
}

// addRollingMeans computes, per player and per base column, the trailing mean
// over the last N observations, current row included. A single observation is
// enough; the mean just covers fewer games.
func addRollingMeans(rows []FeatureRow) {
	history := make(map[int64]map[string][]float64)

	bases := rollingBases()
	for i := range rows {
		perStat := history[rows[i].PersonID]
		if perStat == nil {
			perStat = make(map[string][]float64, len(bases))
			history[rows[i].PersonID] = perStat
		}
		for _, base := range bases {
			value, ok := rows[i].Get(base)
			if !ok {
				continue
			}
			observed := append(perStat[base], value)
			perStat[base] = observed
			for _, window := range rollingWindows {
				rows[i].Set(fmt.Sprintf("%s_rolling_%d", base, window), trailingMean(observed, len(observed)-1, window))
			}
		}
	}
}

// oneHotEncoder expands the categorical columns (home/away and season) into
// 0/1 indicator features. It is fit fresh on every run over both the history
// and the slate, so the indicator set always matches the data at hand.
type oneHotEncoder struct {
	seasons []int
}

func fitOneHot(groups ...[]FeatureRow) *oneHotEncoder {
	seen := make(map[int]struct{})
	for _, rows := range groups {
		for i := range rows {
			seen[rows[i].Season] = struct{}{}
		}
	}
	seasons := make([]int, 0, len(seen))
	for season := range seen {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return &oneHotEncoder{seasons: seasons}
}

func (e *oneHotEncoder) apply(rows []FeatureRow) {
	for i := range rows {
		if rows[i].IsHome {
			rows[i].Set("is_home_true", 1)
			rows[i].Set("is_home_false", 0)
		} else {
			rows[i].Set("is_home_true", 0)
			rows[i].Set("is_home_false", 1)
		}
		for _, season := range e.seasons {
			indicator := 0.0
			if rows[i].Season == season {
				indicator = 1
			}
			rows[i].Set(fmt.Sprintf("season_%d", season), indicator)
		}
	}
}

// isCategoricalFeature reports whether a feature name belongs to the one-hot
// block. Slate assembly replaces these rather than carrying them over from a
// player's last historical game.
func isCategoricalFeature(name string) bool {
	if name == "is_home_true" || name == "is_home_false" {
		return true
	}
	// Season indicators are season_<year>; season_avg is a regular feature.
	year, ok := strings.CutPrefix(name, "season_")
	if !ok || year == "" {
		return false
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
