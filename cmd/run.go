package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"packbot/bot"
	"packbot/catalog"
	"packbot/config"
	"packbot/database"
	"packbot/events"
	"packbot/repository"
	"packbot/scheduler"
	"packbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting packbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()
	log.Println("Event bus initialized successfully")

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	log.Println("Unit of work factory initialized successfully")

	// Load the card catalog
	log.Println("Loading card catalog...")
	cardCatalog, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("failed to load card catalog: %w", err)
	}
	log.Println("Card catalog loaded successfully")

	// Initialize services. The roster is created unbound; bot.New binds
	// it to the session once the connection is up.
	log.Println("Initializing services...")
	roster := bot.NewRoster()
	accountService := service.NewAccountService(uowFactory)
	packService := service.NewPackService(uowFactory, cardCatalog)
	fusionService := service.NewFusionService(uowFactory, cardCatalog)
	duelService := service.NewDuelService(uowFactory)
	rewardService := service.NewRewardService(uowFactory, roster)
	statsService := service.NewStatsService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, roster, accountService, packService, fusionService, duelService, rewardService, statsService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start the presence reward scheduler
	log.Println("Starting reward scheduler...")
	rewardScheduler := scheduler.New(rewardService)
	if err := rewardScheduler.Start(ctx); err != nil {
		discordBot.Close()
		return fmt.Errorf("failed to start reward scheduler: %w", err)
	}

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Stop the reward sweep before closing its dependencies
	rewardScheduler.Stop()

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
