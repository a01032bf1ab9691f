package nbastats

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/hoopsight/pointcast/internal/domain/player"
)

// FetchPlayerIndex downloads the season roster index. Rows without a person
// id are dropped; everything else passes through as-is.
func (c *Client) FetchPlayerIndex(ctx context.Context, season, seasonType string) ([]player.Record, error) {
	if strings.TrimSpace(season) == "" {
		return nil, fmt.Errorf("season is required")
	}
	if strings.TrimSpace(seasonType) == "" {
		seasonType = "Regular Season"
	}

	values := url.Values{}
	values.Set("LeagueID", "00")
	values.Set("Season", season)
	values.Set("SeasonType", seasonType)
	values.Set("Historical", "0")
	values.Set("Active", "")
	values.Set("AllStar", "0")
	fullURL := c.statsBaseURL + "/stats/playerindex?" + values.Encode()

	var envelope resultSetEnvelope
	if err := c.doJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player index season=%s: %w", season, err)
	}

	set, ok := envelope.find("PlayerIndex")
	if !ok {
		return nil, fmt.Errorf("player index payload has no PlayerIndex result set")
	}

	records := make([]player.Record, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		reader := set.reader(row)
		personID := reader.int64("PERSON_ID")
		if personID <= 0 {
			continue
		}
		records = append(records, player.Record{
			PersonID: personID,
			Name:     joinName(reader.str("PLAYER_FIRST_NAME"), reader.str("PLAYER_LAST_NAME")),
			Slug:     reader.str("PLAYER_SLUG"),
			TeamID:   reader.int64("TEAM_ID"),
			Position: reader.str("POSITION"),
			Height:   reader.str("HEIGHT"),
			Weight:   reader.str("WEIGHT"),
			Active:   reader.boolFlag("ROSTER_STATUS"),
		})
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].PersonID < records[j].PersonID })
	return records, nil
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
