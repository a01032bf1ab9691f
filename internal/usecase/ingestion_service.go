package usecase

import (
	"context"
	"fmt"

	"github.com/hoopsight/pointcast/internal/domain/boxscore"
	"github.com/hoopsight/pointcast/internal/domain/player"
	"github.com/hoopsight/pointcast/internal/domain/schedule"
	"github.com/hoopsight/pointcast/internal/domain/team"
	"github.com/hoopsight/pointcast/internal/platform/logging"
)

// StatsFetcher is the slice of the upstream stats client the ingestion
// processes depend on.
type StatsFetcher interface {
	FetchSeason(ctx context.Context, season string) ([]schedule.Entry, []team.Team, error)
	FetchPlayerIndex(ctx context.Context, season, seasonType string) ([]player.Record, error)
	FetchBoxscoreBasic(ctx context.Context, gameID string) ([]boxscore.Row, error)
	FetchBoxscoreAdvanced(ctx context.Context, gameID string) ([]boxscore.AdvancedRow, error)
}

// IngestionService pulls reference and boxscore data from the upstream feeds
// into the warehouse. Reference sets (players, teams, schedule) are
// truncate-and-load; boxscores are incremental, fetching only completed games
// the warehouse has not seen.
type IngestionService struct {
	fetcher   StatsFetcher
	boxscores boxscore.Repository
	players   player.Repository
	teams     team.Repository
	schedule  schedule.Repository
	logger    *logging.Logger
}

func NewIngestionService(
	fetcher StatsFetcher,
	boxscores boxscore.Repository,
	players player.Repository,
	teams team.Repository,
	sched schedule.Repository,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		fetcher:   fetcher,
		boxscores: boxscores,
		players:   players,
		teams:     teams,
		schedule:  sched,
		logger:    logger,
	}
}

// IngestPlayers replaces the season's player index.
func (s *IngestionService) IngestPlayers(ctx context.Context, season, seasonType string) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestPlayers")
	defer span.End()

	records, err := s.fetcher.FetchPlayerIndex(ctx, season, seasonType)
	if err != nil {
		return fmt.Errorf("fetch player index: %w", err)
	}
	if err := s.players.SaveSeason(ctx, season, records); err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	s.logger.InfoContext(ctx, "ingested player index", "season", season, "players", len(records))
	return nil
}

// IngestTeams replaces the team reference set, derived from the season's
// schedule feed.
func (s *IngestionService) IngestTeams(ctx context.Context, season string) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestTeams")
	defer span.End()

	_, teams, err := s.fetcher.FetchSeason(ctx, season)
	if err != nil {
		return fmt.Errorf("fetch season: %w", err)
	}
	if err := s.teams.Save(ctx, teams); err != nil {
		return fmt.Errorf("save teams: %w", err)
	}
	s.logger.InfoContext(ctx, "ingested teams", "season", season, "teams", len(teams))
	return nil
}

// IngestSchedule replaces the season schedule.
func (s *IngestionService) IngestSchedule(ctx context.Context, season string) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestSchedule")
	defer span.End()

	entries, _, err := s.fetcher.FetchSeason(ctx, season)
	if err != nil {
		return fmt.Errorf("fetch season: %w", err)
	}
	if err := s.schedule.Save(ctx, entries); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	s.logger.InfoContext(ctx, "ingested schedule", "season", season, "games", len(entries))
	return nil
}

// IngestBoxscoresBasic fetches the traditional boxscore for every completed
// game not yet in the warehouse. A single game failing to fetch is logged and
// skipped; the games that did fetch still land.
func (s *IngestionService) IngestBoxscoresBasic(ctx context.Context, season string) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestBoxscoresBasic")
	defer span.End()

	existing, err := s.boxscores.LoadBasic(ctx)
	if err != nil {
		return fmt.Errorf("load basic boxscores: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		seen[row.GameID] = struct{}{}
	}

	missing, err := s.missingCompletedGames(ctx, season, seen)
	if err != nil {
		return err
	}

	var rows []boxscore.Row
	fetched, skipped := 0, 0
	for _, entry := range missing {
		gameRows, err := s.fetcher.FetchBoxscoreBasic(ctx, entry.GameID)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping game, basic boxscore fetch failed",
				"game_id", entry.GameID, "error", err)
			skipped++
			continue
		}
		for i := range gameRows {
			joinScheduleContext(&gameRows[i], entry)
		}
		rows = append(rows, gameRows...)
		fetched++
	}

	if err := s.boxscores.SaveBasic(ctx, rows); err != nil {
		return fmt.Errorf("save basic boxscores: %w", err)
	}
	s.logger.InfoContext(ctx, "ingested basic boxscores",
		"season", season, "games_fetched", fetched, "games_skipped", skipped, "rows", len(rows))
	return nil
}

// IngestBoxscoresAdvanced mirrors IngestBoxscoresBasic for the advanced feed.
func (s *IngestionService) IngestBoxscoresAdvanced(ctx context.Context, season string) error {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestBoxscoresAdvanced")
	defer span.End()

	existing, err := s.boxscores.LoadAdvanced(ctx)
	if err != nil {
		return fmt.Errorf("load advanced boxscores: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		seen[row.GameID] = struct{}{}
	}

	missing, err := s.missingCompletedGames(ctx, season, seen)
	if err != nil {
		return err
	}

	var rows []boxscore.AdvancedRow
	fetched, skipped := 0, 0
	for _, entry := range missing {
		gameRows, err := s.fetcher.FetchBoxscoreAdvanced(ctx, entry.GameID)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping game, advanced boxscore fetch failed",
				"game_id", entry.GameID, "error", err)
			skipped++
			continue
		}
		rows = append(rows, gameRows...)
		fetched++
	}

	if err := s.boxscores.SaveAdvanced(ctx, rows); err != nil {
		return fmt.Errorf("save advanced boxscores: %w", err)
	}
	s.logger.InfoContext(ctx, "ingested advanced boxscores",
		"season", season, "games_fetched", fetched, "games_skipped", skipped, "rows", len(rows))
	return nil
}

// missingCompletedGames lists the season's completed games absent from seen.
// The warehouse schedule drives the scan; when it is empty the live feed
// fills in.
func (s *IngestionService) missingCompletedGames(ctx context.Context, season string, seen map[string]struct{}) ([]schedule.Entry, error) {
	entries, err := s.schedule.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if len(entries) == 0 {
		s.logger.InfoContext(ctx, "warehouse schedule empty, fetching live", "season", season)
		entries, _, err = s.fetcher.FetchSeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("fetch season: %w", err)
		}
	}

	var missing []schedule.Entry
	for _, entry := range entries {
		if !entry.Completed() {
			continue
		}
		if _, ok := seen[entry.GameID]; ok {
			continue
		}
		missing = append(missing, entry)
	}
	return missing, nil
}

// joinScheduleContext copies the game's date and sides onto a boxscore row,
// which the upstream boxscore payload does not carry.
func joinScheduleContext(row *boxscore.Row, entry schedule.Entry) {
	if row.GameDate.IsZero() {
		row.GameDate = entry.GameDate
	}
	if row.HomeTeamID == 0 {
		row.HomeTeamID = entry.HomeTeamID
	}
	if row.AwayTeamID == 0 {
		row.AwayTeamID = entry.AwayTeamID
	}
}
