package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mixelka/tempmailbot/internal/bridge"
	"github.com/mixelka/tempmailbot/internal/config"
	"github.com/mixelka/tempmailbot/internal/database"
	"github.com/mixelka/tempmailbot/internal/formatter"
	"github.com/mixelka/tempmailbot/internal/janitor"
	"github.com/mixelka/tempmailbot/internal/mailgw"
	"github.com/mixelka/tempmailbot/internal/monitoring"
	"github.com/mixelka/tempmailbot/internal/parser"
	"github.com/mixelka/tempmailbot/internal/secret"
	"github.com/mixelka/tempmailbot/internal/server"
	"github.com/mixelka/tempmailbot/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger, closeLog, err := setupLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info("starting temp mail bot")

	// Connect to database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations completed")

	// Create components
	var sealer secret.Sealer = secret.Plain{}
	if cfg.EncryptionEnabled() {
		aesSealer, err := secret.NewAESGCM([]byte(cfg.EncryptionKey))
		if err != nil {
			logger.Error("failed to create password sealer", "error", err)
			os.Exit(1)
		}
		sealer = aesSealer
		logger.Info("password encryption enabled")
	}

	metrics := monitoring.NewMetrics()
	provider := mailgw.NewClient(mailgw.Config{
		BaseURL: cfg.MailGWBaseURL,
		Timeout: cfg.MailGWTimeout,
	}, logger)

	mailBridge := bridge.New(bridge.Deps{
		Store:        db,
		Provider:     provider,
		Sealer:       sealer,
		HTMLParser:   parser.NewHTMLParser(),
		CodeDetector: parser.NewCodeDetector(),
		Metrics:      metrics,
		Logger:       logger,
		Options: bridge.Options{
			StrictOwnership: cfg.StrictOwnership,
			Retention:       cfg.RetentionWindow,
			InboxLimit:      cfg.InboxLimit,
			BodyLimit:       cfg.BodyLimit,
			LinkLimit:       bridge.DefaultOptions().LinkLimit,
		},
	})

	// Create bot
	bot, err := telegram.NewBot(telegram.BotDeps{
		Config:    cfg,
		Mailboxes: mailBridge,
		Formatter: formatter.NewTelegramFormatter(),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	web := server.New(server.Deps{
		Port:        cfg.Port,
		DB:          db.DB.DB,
		ProviderURL: provider.BaseURL(),
		Metrics:     metrics,
		Logger:      logger,
	})

	cleanup := janitor.New(mailBridge, janitor.Config{
		Delay:    cfg.CleanupDelay,
		Interval: cfg.CleanupInterval,
	}, logger)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		bot.Start(groupCtx)
		return nil
	})
	group.Go(func() error {
		return web.Run(groupCtx)
	})
	group.Go(func() error {
		return cleanup.Run(groupCtx)
	})

	logger.Info("bot is running, press Ctrl+C to stop",
		"retention", mailBridge.Retention(),
		"strict_ownership", cfg.StrictOwnership,
	)

	if err := group.Wait(); err != nil {
		logger.Error("service error", "error", err)
		stop()
		os.Exit(1)
	}

	logger.Info("bot stopped")
}

func setupLogger(level, format, file string) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stdout
	closeFn := func() {}

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, nil, err
		}

		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closeFn = func() { rotator.Close() }
	}

	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console, plain when a file is attached
		handler = tint.NewHandler(out, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    file != "",
		})
	}

	return slog.New(handler), closeFn, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
