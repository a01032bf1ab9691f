package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/hoopsight/pointcast/external/nbastats"
	"github.com/hoopsight/pointcast/internal/artifact"
	"github.com/hoopsight/pointcast/internal/config"
	"github.com/hoopsight/pointcast/internal/infrastructure/warehouse"
	"github.com/hoopsight/pointcast/internal/platform/id"
	"github.com/hoopsight/pointcast/internal/platform/logging"
	"github.com/hoopsight/pointcast/internal/platform/resilience"
	"github.com/hoopsight/pointcast/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		process    = flag.String("process", "", "process to run: players, teams, schedule, boxscore-basic, boxscore-advanced, predict-points, all")
		season     = flag.String("season", "", `season label, e.g. "2024-25" (default: current season)`)
		seasonType = flag.String("season-type", "Regular Season", "season type for the player index")
		mode       = flag.String("mode", "", "override SAVE_MODE: local or warehouse")
		dateFlag   = flag.String("date", "", "slate date as YYYY-MM-DD (default: today)")
		days       = flag.Int("days", 1, "slate window in days")
		modelPath  = flag.String("model", "", "model artifact path or URL (overrides MODEL_PATH)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if *mode != "" {
		cfg.SaveMode = strings.ToLower(strings.TrimSpace(*mode))
	}
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slateDate := time.Now().UTC().Truncate(24 * time.Hour)
	if *dateFlag != "" {
		slateDate, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			logger.Error("invalid -date, expected YYYY-MM-DD", "date", *dateFlag, "error", err)
			return 1
		}
	}
	seasonLabel := strings.TrimSpace(*season)
	if seasonLabel == "" {
		seasonLabel = currentSeasonLabel(slateDate)
	}

	var db *sqlx.DB
	if cfg.SaveMode == warehouse.ModeWarehouse {
		db, err = sqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
		if err != nil {
			logger.Error("connect database", "error", err)
			return 1
		}
		defer func() { _ = db.Close() }()
	}

	tables, err := warehouse.Open(warehouse.Options{
		Mode:    cfg.SaveMode,
		DB:      db,
		DataDir: cfg.DataDir,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("open warehouse", "error", err)
		return 1
	}

	client := nbastats.NewClient(nbastats.ClientConfig{
		StatsBaseURL: cfg.StatsBaseURL,
		DataBaseURL:  cfg.DataBaseURL,
		Timeout:      cfg.StatsTimeout,
		MaxRetries:   cfg.StatsMaxRetries,
		MinInterval:  cfg.StatsMinInterval,
		MaxJitter:    cfg.StatsMaxJitter,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsCircuitEnabled,
			FailureThreshold: cfg.StatsCircuitFailureCount,
			OpenTimeout:      cfg.StatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsCircuitHalfOpenMaxReq,
		},
	})

	ingest := usecase.NewIngestionService(client, tables.Boxscores, tables.Players, tables.Teams, tables.Schedule, logger)

	logger.Info("pipeline starting",
		"process", *process, "season", seasonLabel, "mode", cfg.SaveMode)

	switch strings.ToLower(strings.TrimSpace(*process)) {
	case "players":
		err = ingest.IngestPlayers(ctx, seasonLabel, *seasonType)
	case "teams":
		err = ingest.IngestTeams(ctx, seasonLabel)
	case "schedule":
		err = ingest.IngestSchedule(ctx, seasonLabel)
	case "boxscore-basic":
		err = ingest.IngestBoxscoresBasic(ctx, seasonLabel)
	case "boxscore-advanced":
		err = ingest.IngestBoxscoresAdvanced(ctx, seasonLabel)
	case "predict-points":
		err = runPredict(ctx, cfg, tables, seasonLabel, slateDate, *days, logger)
	case "all":
		err = runAll(ctx, ingest, seasonLabel, *seasonType)
	default:
		logger.Error("unknown process",
			"process", *process, "error", usecase.ErrUnknownProcess)
		flag.Usage()
		return 2
	}
	if err != nil {
		logger.Error("pipeline failed", "process", *process, "error", err)
		return 1
	}

	logger.Info("pipeline finished", "process", *process)
	return 0
}

func runAll(ctx context.Context, ingest *usecase.IngestionService, season, seasonType string) error {
	if err := ingest.IngestTeams(ctx, season); err != nil {
		return err
	}
	if err := ingest.IngestSchedule(ctx, season); err != nil {
		return err
	}
	if err := ingest.IngestPlayers(ctx, season, seasonType); err != nil {
		return err
	}
	if err := ingest.IngestBoxscoresBasic(ctx, season); err != nil {
		return err
	}
	return ingest.IngestBoxscoresAdvanced(ctx, season)
}

func runPredict(
	ctx context.Context,
	cfg config.Config,
	tables *warehouse.Tables,
	season string,
	date time.Time,
	days int,
	logger *logging.Logger,
) error {
	if cfg.ModelPath == "" {
		return errors.New("predict-points requires -model or MODEL_PATH")
	}

	loader := artifact.Loader{Logger: logger, StageDir: cfg.ModelStageDir}
	model, err := loader.Load(ctx, cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load model artifact: %w", err)
	}

	service := usecase.NewPredictionService(
		tables.Boxscores,
		tables.Players,
		tables.Schedule,
		tables.Predictions,
		id.NewRandomGenerator(),
		logger,
	)
	rows, err := service.PredictPoints(ctx, usecase.PredictRequest{
		Season: season,
		Date:   date,
		Days:   days,
		Model:  model,
	})
	if err != nil {
		return err
	}

	for i, row := range rows {
		if i >= 10 {
			break
		}
		logger.Info("prediction",
			"rank", i+1,
			"player", row.PlayerName,
			"game_id", row.GameID,
			"predicted_points", fmt.Sprintf("%.1f", row.PredictedPoints),
		)
	}
	return nil
}

// currentSeasonLabel maps a date onto the league's season label, with July
// starting the new season year.
func currentSeasonLabel(date time.Time) string {
	year := date.Year()
	if date.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

func normalizeDBURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
