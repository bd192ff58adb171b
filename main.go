package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/auth"
	"kekse-bot/clock"
	"kekse-bot/cogs"
	"kekse-bot/config"
	"kekse-bot/counting"
	"kekse-bot/giveaway"
	"kekse-bot/logger"
	"kekse-bot/server"
	"kekse-bot/storage"
	"kekse-bot/tickets"
	"kekse-bot/utils"
	"kekse-bot/warnings"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Init("kekse-bot", false)
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup(logger.Options{Service: "kekse-bot", Debug: cfg.Debug, JSON: cfg.LogJSON})

	ctx := context.Background()

	var store storage.Store
	if cfg.Storage.DatabaseURL != "" {
		pg, err := storage.OpenPostgres(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Database setup failed")
		}
		defer pg.Close()
		store = pg
		logger.Info().Msg("Database connected successfully")
	} else {
		fs, err := storage.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("Data directory setup failed")
		}
		store = fs
		logger.Info().Str("dir", cfg.Storage.DataDir).Msg("Using JSON documents")
	}

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers

	clk := clock.Real()
	metrics := &utils.PlatformMetrics{}

	countingEngine, err := counting.New(ctx, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load counting state")
	}
	ticketManager, err := tickets.New(ctx, store,
		cogs.NewTicketPlatform(session, cfg.Discord.GuildID, cfg.Guild.ModRoleID, metrics),
		clk,
		tickets.Options{
			SupportParentID:     cfg.Guild.SupportCategoryID,
			ApplicationParentID: cfg.Guild.ApplicationCategoryID,
			DeleteDelay:         cfg.Tickets.DeleteDelay,
		})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load tickets")
	}
	defer ticketManager.Stop()

	warningService, err := warnings.New(ctx, store, clk)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load warnings")
	}
	dashboard, err := auth.NewDashboard(ctx, store, clk, cfg.Guild.OwnerID)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load dashboard credentials")
	}

	bot := cogs.New(session,
		cogs.Options{
			AppID:            cfg.Discord.AppID,
			GuildID:          cfg.Discord.GuildID,
			RegisterCommands: cfg.Discord.RegisterCommands,
		},
		auth.Policy{OwnerID: cfg.Guild.OwnerID, ModRoleID: cfg.Guild.ModRoleID},
		cogs.Services{
			Counting:  countingEngine,
			Tickets:   ticketManager,
			Giveaways: giveaway.NewTracker(clk),
			Warnings:  warningService,
			Dashboard: dashboard,
			Store:     store,
		},
		clk, metrics)
	defer bot.Stop()

	srv, err := server.New(bot, dashboard, server.Options{
		Port:       cfg.Server.Port,
		PublicKey:  cfg.Discord.PublicKey,
		CORSOrigin: cfg.Server.CORSOrigin,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up HTTP server")
	}
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("HTTP server stopped")
		}
	}()

	if cfg.Discord.BotToken == "" {
		// the webhook and the dashboard keep working without the gateway
		logger.Warn().Msg("BOT_TOKEN not set - Discord bot will not connect")
	} else {
		session.AddHandler(bot.OnReady)
		session.AddHandler(bot.OnMessageCreate)
		session.AddHandler(bot.OnInteractionCreate)
		if err := session.Open(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to open Discord connection")
		}
		defer session.Close()
		logger.Info().Msg("Bot is now running. Press CTRL+C to exit.")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Gracefully shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}
