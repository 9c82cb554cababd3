package cmd

import (
	"context"
	"fmt"
	"log"

	"starbot/bot"
	"starbot/config"
	"starbot/database"
	"starbot/events"
	"starbot/repository"
	"starbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting star ledger bot...")

	cfg := config.Get()

	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	accountService := service.NewAccountService(uowFactory, cfg.ReferralBonus)
	checkService := service.NewCheckService(uowFactory)
	promoService := service.NewPromoService(uowFactory)
	withdrawalService := service.NewWithdrawalService(uowFactory)

	log.Println("Initializing Telegram bot...")
	botConfig := bot.Config{
		Token:       cfg.BotToken,
		BotUsername: cfg.BotUsername,
		Channel:     cfg.Channel,
		AdminIDs:    cfg.AdminIDs,
	}
	telegramBot, err := bot.New(botConfig, accountService, checkService, promoService, withdrawalService)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	// Creator notifications ride the event bus so they only fire after the
	// claim transaction has committed
	bot.RegisterNotifications(eventBus, telegramBot.API())

	log.Printf("Bot is running in %s mode...", cfg.Environment)
	telegramBot.Start(ctx)

	log.Println("Shutting down bot...")
	telegramBot.Close()

	return nil
}
