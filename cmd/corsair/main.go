package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/corsair-bot/corsair/internal/api"
	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/internal/controller"
	"github.com/corsair-bot/corsair/internal/dispatcher"
	"github.com/corsair-bot/corsair/internal/influx"
	"github.com/corsair-bot/corsair/internal/logging"
	"github.com/corsair-bot/corsair/internal/match"
	"github.com/corsair-bot/corsair/internal/monitor"
	intOtel "github.com/corsair-bot/corsair/internal/otel"
	"github.com/corsair-bot/corsair/internal/parser"
	"github.com/corsair-bot/corsair/internal/random"
	"github.com/corsair-bot/corsair/internal/storage"
	"github.com/corsair-bot/corsair/internal/worker"
	"github.com/corsair-bot/corsair/pkg/core"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Version and BuildDate can be set at build time via ldflags
var (
	Version   = "0.0.1"
	BuildDate = "unknown"
)

const appName = "corsair"

// matchSettings is stored alongside each recorded match.
type matchSettings struct {
	Game      config.GameConfig `json:"game"`
	Idle      config.IdleConfig `json:"idle"`
	BuildDate string            `json:"buildDate"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// run plays one match reading turns from in and writing commands to out. Every
// log line goes to errOut or the session log file.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) (err error) {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(errOut)
	configDir := fs.String("config", envOr("CORSAIR_CONFIG_DIR", "."), "directory containing "+config.FileName)
	noLogFile := fs.Bool("no-log-file", false, "log to stderr only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sessionStart := time.Now()

	// Bootstrap logging on stderr so config errors are visible
	logManager := logging.NewSlogManager()
	logManager.Setup(nil, "info", nil)
	logger := logManager.Logger()

	if err := config.Load(*configDir); err != nil {
		logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		logger.Info("Loaded config", "dir", *configDir)
	}

	var logFile *os.File
	if !*noLogFile {
		logFile, err = logging.OpenLogFile(config.GetString("logsDir"), appName, sessionStart)
		if err != nil {
			logger.Error("Failed to create/open log file!", "error", err)
		} else {
			defer logFile.Close()
		}
	}
	var fileOut io.Writer
	if logFile != nil {
		fileOut = logFile
	}

	otelProvider, err := intOtel.New(intOtel.FromConfig(config.GetOTelConfig(), Version, fileOut))
	if err != nil {
		logger.Error("Failed to initialize OTel provider", "error", err)
		otelProvider = nil
	}
	defer func() {
		if otelProvider == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := otelProvider.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("OTel shutdown failed", "error", serr)
		}
	}()

	// Re-setup logging with file output, match attributes and optional OTel
	matchCtx := match.NewContext()
	var otelLogProvider *sdklog.LoggerProvider
	if otelProvider != nil {
		otelLogProvider = otelProvider.LoggerProvider()
	}
	logManager.WithAttrs(matchCtx)
	logManager.Setup(fileOut, config.GetString("logLevel"), otelLogProvider)
	logger = logManager.Logger()
	if logFile != nil {
		logger.Info("Logging to file", "path", logFile.Name())
	}
	defer func() {
		if ferr := logManager.Flush(context.Background()); ferr != nil {
			logger.Warn("Failed to flush logs", "error", ferr)
		}
	}()

	dbLog := newZerolog(errOut, fileOut, config.GetString("logLevel"))

	game := config.GetGameConfig()
	idle := config.GetIdleConfig()
	seeds, err := config.GetRandomConfig()
	if err != nil {
		return fmt.Errorf("random config: %w", err)
	}

	mt := matchCtx.Start(seeds.Seed0, seeds.Seed1, game.Grid(), Version)
	logger.Info("Starting match",
		"version", Version,
		"grid", game.Grid().String(),
		"maxTurns", game.MaxTurns,
		"idle", idle.Mode)

	// Recording is best effort: failures are logged and the match is played anyway
	var res core.MatchResult
	backend := initStorage(config.GetStorageConfig(), logManager, dbLog)
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			logger.Warn("Failed to close storage backend", "error", cerr)
		}
		if exp, ok := backend.(storage.Exporter); ok && exp.ExportedFilePath() != "" {
			logger.Info("Match exported", "path", exp.ExportedFilePath())
			if apiCfg := config.GetAPIConfig(); apiCfg.Upload {
				uploadExport(exp.ExportedFilePath(), mt, res, apiCfg, logger)
			}
		}
	}()

	var metrics worker.PointWriter
	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		backupPath := filepath.Join(config.GetString("logsDir"),
			fmt.Sprintf("%s_influx_%s.lp.gz", appName, sessionStart.Format("20060102_150405")))
		im := influx.NewManager(influxCfg, dbLog, backupPath)
		if cerr := im.Connect(ctx); cerr != nil {
			logger.Warn("InfluxDB unavailable, metrics disabled", "error", cerr)
		} else {
			metrics = im
			defer im.Close()
		}
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(logger))
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}
	workerManager := worker.NewManager(worker.Dependencies{
		LogManager: logManager,
		Match:      matchCtx,
		Metrics:    metrics,
	}, backend)
	workerManager.RegisterHandlers(d)

	if mc := config.GetMonitorConfig(); mc.Enabled {
		mon := monitor.NewService(monitor.Dependencies{
			LogManager: logManager,
			Match:      matchCtx,
			Recorder:   workerManager,
			StatusFile: mc.StatusFile,
			Interval:   mc.Interval,
		})
		if serr := mon.Start(); serr == nil {
			defer mon.Stop()
		}
	}

	if serr := workerManager.StartMatch(matchSettings{Game: game, Idle: idle, BuildDate: BuildDate}); serr != nil {
		logger.Warn("Failed to record match start", "match", mt.ID, "error", serr)
	}

	ctrl := controller.New(game,
		controller.WithIdle(idle),
		controller.WithRandom(random.New(seeds.Seed0, seeds.Seed1)),
		controller.WithPublisher(d),
		controller.WithMatch(matchCtx),
		controller.WithLogger(logger),
	)

	reader := parser.NewReader(in, parser.NewParser(logger))
	runErr := ctrl.Run(ctx, reader, parser.NewWriter(out))

	// Drain buffered records before the result reaches the backend
	d.Close()
	if ferr := workerManager.Finish(); ferr != nil {
		logger.Warn("Failed to record match end", "error", ferr)
	}

	res, _ = workerManager.Result()
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			logger.Info("Match interrupted", "turns", res.Turns)
			return nil
		}
		logger.Error("Match aborted", "turns", res.Turns, "error", runErr)
		return runErr
	}

	logger.Info("Match finished", "turns", res.Turns, "shots", res.Shots, "moves", res.Moves)
	return nil
}

// initStorage builds and initializes the configured backend, falling back to
// Discard when it cannot be brought up.
func initStorage(cfg config.StorageConfig, logManager *logging.SlogManager, dbLog zerolog.Logger) storage.Backend {
	logger := logManager.Logger()

	backend, err := storage.NewBackend(cfg, storage.Dependencies{
		LogManager: logManager,
		DBLog:      dbLog,
	})
	if err != nil {
		logger.Error("Failed to create storage backend", "error", err)
		return storage.Discard{}
	}
	if err := backend.Init(); err != nil {
		logger.Error("Failed to initialize storage backend", "type", cfg.Type, "error", err)
		_ = backend.Close()
		return storage.Discard{}
	}
	logger.Info("Storage backend initialized", "type", cfg.Type)
	return backend
}

// uploadExport sends the exported match file to the replay server.
func uploadExport(path string, mt *core.Match, res core.MatchResult, cfg config.APIConfig, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := api.New(cfg.ServerURL, cfg.APIKey)
	if err := client.Healthcheck(ctx); err != nil {
		logger.Warn("Replay server unavailable, skipping upload", "url", cfg.ServerURL, "error", err)
		return
	}

	meta := core.UploadMetadata{
		MatchID: mt.ID,
		Turns:   res.Turns,
		Reason:  res.Reason,
		Tag:     cfg.Tag,
	}
	if !res.EndTime.IsZero() {
		meta.Duration = res.EndTime.Sub(mt.StartTime).Seconds()
	}
	if err := client.Upload(ctx, path, meta); err != nil {
		logger.Error("Failed to upload match", "path", path, "error", err)
		return
	}
	logger.Info("Match uploaded", "url", cfg.ServerURL, "match", mt.ID)
}

// newZerolog writes to errOut and, when set, to file.
func newZerolog(errOut, file io.Writer, level string) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.RFC3339, NoColor: true}}
	if file != nil {
		writers = append(writers, file)
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Logger()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
