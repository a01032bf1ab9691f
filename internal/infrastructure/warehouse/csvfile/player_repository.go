package csvfile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

var playerHeader = []string{
	"person_id", "name", "slug", "team_id", "position", "height", "weight", "active", "modification_date",
}

type PlayerRepository struct {
	dataDir string
	logger  *logging.Logger
}

func NewPlayerRepository(dataDir string, logger *logging.Logger) *PlayerRepository {
	return &PlayerRepository{dataDir: dataDir, logger: logger}
}

func (r *PlayerRepository) seasonPath(season string) string {
	label := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == '-' || c == ' ':
			return '_'
		}
		return -1
	}, season)
	return filepath.Join(r.dataDir, "players_"+label+".csv")
}

func (r *PlayerRepository) LoadSeason(ctx context.Context, season string) ([]player.Record, error) {
	records := readTable(ctx, r.logger, r.seasonPath(season))
	out := make([]player.Record, 0, len(records))
	for _, record := range records {
		out = append(out, player.Record{
			PersonID: parseInt64(field(record, 0)),
			Name:     field(record, 1),
			Slug:     field(record, 2),
			TeamID:   parseInt64(field(record, 3)),
			Position: field(record, 4),
			Height:   field(record, 5),
			Weight:   field(record, 6),
			Active:   parseBool(field(record, 7)),
		})
	}
	return out, nil
}

func (r *PlayerRepository) SaveSeason(ctx context.Context, season string, players []player.Record) error {
	if len(players) == 0 {
		r.logger.InfoContext(ctx, "no player records to save", "season", season)
		return nil
	}

	modified := stamp()
	records := make([][]string, 0, len(players))
	for _, p := range players {
		records = append(records, []string{
			formatInt64(p.PersonID),
			p.Name,
			p.Slug,
			formatInt64(p.TeamID),
			p.Position,
			p.Height,
			p.Weight,
			formatBool(p.Active),
			modified,
		})
	}

	if err := writeTable(r.seasonPath(season), playerHeader, records); err != nil {
		r.logger.ErrorContext(ctx, "save player records failed", "season", season, "rows", len(players), "error", err)
		return fmt.Errorf("save players season=%s: %w", season, err)
	}
	r.logger.InfoContext(ctx, "saved player records", "season", season, "rows", len(players))
	return nil
}
