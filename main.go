package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/8549/sbustatinabot/sbustatina"
	"github.com/8549/sbustatinabot/sbustatina/commands"
	"github.com/8549/sbustatinabot/sbustatina/database"
	"github.com/8549/sbustatinabot/sbustatina/database/repositories"
	"github.com/8549/sbustatinabot/sbustatina/game"
	"github.com/8549/sbustatinabot/sbustatina/handlers"
	"github.com/8549/sbustatinabot/sbustatina/logger"
	"github.com/8549/sbustatinabot/sbustatina/migration"
	"github.com/8549/sbustatinabot/sbustatina/services"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	legacyMongoURI := flag.String("import-legacy", "", "Mongo URI of the legacy bot database to import, then exit")
	legacyMongoName := flag.String("legacy-db", "sbustatina", "Name of the legacy Mongo database")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := sbustatina.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting Sbustatina",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbStart := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStart)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStart)))

	if *legacyMongoURI != "" {
		migrator, err := migration.NewMigrator(ctx, db.BunDB(), *legacyMongoURI, *legacyMongoName)
		if err != nil {
			slog.Error("Failed to set up legacy import", slog.Any("error", err))
			os.Exit(-1)
		}
		if err := migrator.Run(ctx); err != nil {
			slog.Error("Legacy import failed", slog.Any("error", err))
			os.Exit(-1)
		}
		return
	}

	spacesService, err := services.NewSpacesService(
		cfg.Spaces.Key,
		cfg.Spaces.Secret,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.CardRoot,
	)
	if err != nil {
		slog.Error("Failed to initialize Spaces service", slog.Any("error", err))
		os.Exit(-1)
	}

	b := sbustatina.New(*cfg, version, commit)
	b.DB = db
	b.SpacesService = spacesService

	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.SetRepository = repositories.NewSetRepository(db.BunDB())
	b.CardRepository = repositories.NewCardRepository(db.BunDB())
	b.DrawRepository = repositories.NewDrawRepository(db.BunDB())
	b.CollectionRepository = repositories.NewCollectionRepository(db.BunDB())

	b.Opener = game.NewOpener(game.OpenerConfig{
		DailyLimit: cfg.Game.DailyLimit,
		DefaultSet: cfg.Game.DefaultSet,
		Location:   cfg.Game.Location(),
	}, b.DrawRepository, b.CardRepository, b.CollectionRepository, spacesService)
	b.Valuator = game.NewValuator(b.SetRepository, b.CollectionRepository)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	b.DrawRepository.StartCleanupRoutine(cleanupCtx,
		time.Duration(cfg.Game.DrawRetentionDays)*24*time.Hour)

	h := handler.New()
	h.Command("/sbusta", handlers.WrapWithLogging("sbusta", commands.SbustaHandler(b)))
	h.Command("/collezione", handlers.WrapWithLogging("collezione", commands.CollezioneHandler(b)))
	h.Command("/valuta", handlers.WrapWithLogging("valuta", commands.ValutaHandler(b)))
	h.Command("/scambia", handlers.WrapWithLogging("scambia", commands.ScambiaHandler(b)))
	h.Command("/info", handlers.WrapWithLogging("info", commands.InfoHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot", slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands", slog.Any("error", err))
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		slog.Error("Failed to open gateway", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
