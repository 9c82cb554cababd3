package bot

import (
	"context"
	"fmt"

	"starbot/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token       string
	BotUsername string
	// Channel the user must be subscribed to before using the menu,
	// e.g. "@mychannel". Empty disables the gate.
	Channel  string
	AdminIDs []int64
}

// Bot is the Telegram transport in front of the ledger services. It parses
// commands and deep links, collects multi-step input, and renders results;
// all validation happens here before a service is called.
type Bot struct {
	api     *tgbotapi.BotAPI
	updates tgbotapi.UpdatesChannel
	config  Config
	admins  map[int64]bool

	accounts      service.AccountService
	checks        service.CheckService
	promos        service.PromoService
	withdrawals   service.WithdrawalService
	conversations *conversationStore
}

// New creates the bot and opens the long-polling update channel
func New(config Config, accounts service.AccountService, checks service.CheckService, promos service.PromoService, withdrawals service.WithdrawalService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	log.WithField("username", api.Self.UserName).Info("Authorized on Telegram")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	admins := make(map[int64]bool, len(config.AdminIDs))
	for _, id := range config.AdminIDs {
		admins[id] = true
	}

	return &Bot{
		api:           api,
		updates:       api.GetUpdatesChan(u),
		config:        config,
		admins:        admins,
		accounts:      accounts,
		checks:        checks,
		promos:        promos,
		withdrawals:   withdrawals,
		conversations: newConversationStore(),
	}, nil
}

// API exposes the underlying client for the notifier
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// Start runs the update loop until the context is cancelled. Each update is
// handled in its own goroutine; the services serialize concurrent access.
func (b *Bot) Start(ctx context.Context) {
	log.Info("Bot update loop started")

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-b.updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Close stops receiving updates
func (b *Bot) Close() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Update handler panicked")
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

// isAdmin reports whether the user may use the admin panel
func (b *Bot) isAdmin(userID int64) bool {
	return b.admins[userID]
}

// isSubscribed checks membership in the gate channel. Errors count as not
// subscribed, matching a private or deleted account.
func (b *Bot) isSubscribed(userID int64) bool {
	if b.config.Channel == "" {
		return true
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: b.config.Channel,
			UserID:             userID,
		},
	})
	if err != nil {
		log.WithError(err).WithField("userID", userID).Debug("Subscription check failed")
		return false
	}

	switch member.Status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.WithError(err).Warn("Failed to send message")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}
