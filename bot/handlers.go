package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"starbot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const welcomeText = "Welcome to the bot!"

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.From == nil {
		return
	}

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			b.handleStart(ctx, m)
		case "admin":
			b.handleAdmin(m)
		default:
			b.sendMenuHint(m.Chat.ID)
		}
		return
	}

	if conv := b.conversations.get(m.From.ID); conv != nil {
		b.handleConversationInput(ctx, m, conv)
		return
	}

	b.sendMenuHint(m.Chat.ID)
}

// handleStart handles /start and its deep-link payloads:
// a numeric referrer ID, claim_<checkID>, or promo_<code>.
func (b *Bot) handleStart(ctx context.Context, m *tgbotapi.Message) {
	user := m.From
	param := strings.TrimSpace(m.CommandArguments())

	var referrerID *int64
	if param != "" {
		if id, err := strconv.ParseInt(param, 10, 64); err == nil {
			referrerID = &id
		}
	}

	// The account row must exist before any claim or menu rendering
	if _, err := b.accounts.EnsureAccount(ctx, user.ID, user.UserName, user.FirstName, referrerID); err != nil {
		log.WithError(err).WithField("userID", user.ID).Error("Failed to ensure account")
		b.reply(m.Chat.ID, "Something went wrong, please try again.")
		return
	}

	if checkID, ok := strings.CutPrefix(param, "claim_"); ok {
		b.claimCheck(ctx, m.Chat.ID, user, checkID)
		return
	}

	if code, ok := strings.CutPrefix(param, "promo_"); ok {
		b.claimPromo(ctx, m.Chat.ID, user.ID, code)
		return
	}

	if !b.isSubscribed(user.ID) {
		msg := tgbotapi.NewMessage(m.Chat.ID, "You are not subscribed to the channel. Please subscribe to continue.")
		msg.ReplyMarkup = subscribeKeyboard(b.config.Channel)
		b.send(msg)
		return
	}

	b.sendMenu(m.Chat.ID)
}

func (b *Bot) claimCheck(ctx context.Context, chatID int64, user *tgbotapi.User, checkID string) {
	result, err := b.checks.ClaimCheck(ctx, checkID, user.ID, displayName(user))
	if err != nil {
		b.reply(chatID, claimErrorText(err, "check"))
		b.sendMenu(chatID)
		return
	}

	b.reply(chatID, fmt.Sprintf("You received %d stars!", result.StarsAwarded))
	b.sendMenu(chatID)
}

func (b *Bot) claimPromo(ctx context.Context, chatID int64, userID int64, code string) {
	result, err := b.promos.ClaimPromo(ctx, code, userID)
	if err != nil {
		b.reply(chatID, claimErrorText(err, "promo code"))
		b.sendMenu(chatID)
		return
	}

	b.reply(chatID, fmt.Sprintf("Promo code applied, you received %d stars!", result.StarsAwarded))
	b.sendMenu(chatID)
}

func (b *Bot) handleAdmin(m *tgbotapi.Message) {
	// Non-admins get no reply at all
	if !b.isAdmin(m.From.ID) {
		return
	}

	msg := tgbotapi.NewMessage(m.Chat.ID, "Admin panel:")
	msg.ReplyMarkup = adminKeyboard()
	b.send(msg)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Message is nil for callbacks from inline-mode results or messages too
	// old for the API to reference; there is no chat to answer into.
	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	ack := func(text string) {
		callback := tgbotapi.NewCallback(cb.ID, text)
		if _, err := b.api.Request(callback); err != nil {
			log.WithError(err).Debug("Failed to answer callback")
		}
	}

	switch data := cb.Data; {
	case data == "back":
		b.editMenu(chatID, messageID, welcomeText, menuKeyboard())
		ack("")

	case data == "profile":
		b.showProfile(ctx, cb)
		ack("")

	case data == "earn":
		text := fmt.Sprintf("Share your personal link and earn stars for every friend who joins:\nhttps://t.me/%s?start=%d", b.config.BotUsername, userID)
		b.editMenu(chatID, messageID, text, backKeyboard())
		ack("")

	case data == "create_check":
		b.conversations.set(userID, &conversation{state: stateCheckAmount})
		b.reply(chatID, "Enter the total amount of stars for the check (whole number):")
		ack("")

	case data == "withdraw":
		b.editMenu(chatID, messageID, "Choose the amount to withdraw:", withdrawKeyboard())
		ack("")

	case strings.HasPrefix(data, "wd_"):
		amount, err := strconv.ParseInt(strings.TrimPrefix(data, "wd_"), 10, 64)
		if err != nil {
			ack("")
			return
		}
		result, err := b.withdrawals.RequestWithdrawal(ctx, userID, amount)
		if errors.Is(err, models.ErrInsufficientFunds) {
			alert := tgbotapi.NewCallbackWithAlert(cb.ID, "You don't have enough stars.")
			if _, err := b.api.Request(alert); err != nil {
				log.WithError(err).Debug("Failed to answer callback")
			}
			return
		}
		if err != nil {
			log.WithError(err).WithField("userID", userID).Error("Withdrawal failed")
			ack("Something went wrong.")
			return
		}
		b.reply(chatID, fmt.Sprintf("Withdrawal of %d stars requested. An administrator will contact you. Request ID: %s", result.Amount, result.Token))
		ack("")

	case data == "admin_create_promo":
		if !b.isAdmin(userID) {
			ack("")
			return
		}
		b.conversations.set(userID, &conversation{state: statePromoCode})
		b.reply(chatID, "Enter the promo code (e.g. SUPER2025):")
		ack("")

	case data == "admin_withdrawals":
		if !b.isAdmin(userID) {
			ack("")
			return
		}
		b.showPendingWithdrawals(ctx, chatID)
		ack("")

	case data == "admin_cancel":
		if !b.isAdmin(userID) {
			ack("")
			return
		}
		b.conversations.clear(userID)
		b.editMenu(chatID, messageID, "Cancelled.", menuKeyboard())
		ack("")

	default:
		ack("")
	}
}

func (b *Bot) showProfile(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID

	profile, err := b.accounts.GetProfile(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		// The account should exist by now, but /start may have been skipped
		if _, err := b.accounts.EnsureAccount(ctx, userID, cb.From.UserName, cb.From.FirstName, nil); err == nil {
			profile, err = b.accounts.GetProfile(ctx, userID)
		}
		if err != nil {
			log.WithError(err).WithField("userID", userID).Error("Failed to load profile")
			return
		}
	} else if err != nil {
		log.WithError(err).WithField("userID", userID).Error("Failed to load profile")
		return
	}

	text := fmt.Sprintf(
		"Profile: %s (@%s)\nBalance: %d stars\nInvited: %d",
		profile.FirstName, profile.Username, profile.Balance, profile.InvitedCount,
	)
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, text, profileKeyboard())
}

func (b *Bot) showPendingWithdrawals(ctx context.Context, chatID int64) {
	pending, err := b.withdrawals.ListPending(ctx, 20)
	if err != nil {
		log.WithError(err).Error("Failed to list pending withdrawals")
		b.reply(chatID, "Failed to load pending withdrawals.")
		return
	}

	if len(pending) == 0 {
		b.reply(chatID, "No pending withdrawals.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Pending withdrawals:\n")
	for _, w := range pending {
		fmt.Fprintf(&sb, "%s — user %d, %d stars\n", w.Token, w.UserID, w.Amount)
	}
	b.reply(chatID, sb.String())
}

// handleConversationInput advances a multi-step input flow. Each step
// validates its field before the complete request reaches a service.
func (b *Bot) handleConversationInput(ctx context.Context, m *tgbotapi.Message, conv *conversation) {
	userID := m.From.ID
	chatID := m.Chat.ID
	text := strings.TrimSpace(m.Text)

	switch conv.state {
	case stateCheckAmount:
		amount, err := parsePositiveInt(text)
		if err != nil {
			b.reply(chatID, "Enter a positive whole number for the amount.")
			return
		}
		conv.amount = amount
		conv.state = stateCheckActivations
		b.conversations.set(userID, conv)
		b.reply(chatID, "How many activations will the check have? Enter a whole number (e.g. 3):")

	case stateCheckActivations:
		activations, err := parsePositiveInt(text)
		if err != nil {
			b.reply(chatID, "Enter a positive whole number for the activations.")
			return
		}
		b.conversations.clear(userID)

		result, err := b.checks.CreateCheck(ctx, userID, conv.amount, int(activations))
		if errors.Is(err, models.ErrInsufficientFunds) {
			b.reply(chatID, "You don't have enough stars to create this check.")
			return
		}
		if err != nil {
			log.WithError(err).WithField("userID", userID).Error("Check creation failed")
			b.reply(chatID, "Something went wrong, please try again.")
			return
		}

		claimLink := fmt.Sprintf("https://t.me/%s?start=claim_%s", b.config.BotUsername, result.CheckID)
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"Check created!\nStars: %d\nActivations: %d\nStars per activation: %d\n\nShare the button below so others can collect their stars!",
			result.TotalStars, result.Activations, result.StarsPerActivation,
		))
		msg.ReplyMarkup = checkShareKeyboard(claimLink)
		b.send(msg)

	case statePromoCode:
		if text == "" {
			b.reply(chatID, "The code cannot be empty. Try again.")
			return
		}
		conv.code = text
		conv.state = statePromoStars
		b.conversations.set(userID, conv)
		b.reply(chatID, "How many stars will the promo code award? Enter a whole number (e.g. 50):")

	case statePromoStars:
		stars, err := parsePositiveInt(text)
		if err != nil {
			b.reply(chatID, "Enter a positive whole number for the stars.")
			return
		}
		conv.stars = stars
		conv.state = statePromoActivations
		b.conversations.set(userID, conv)
		b.reply(chatID, "How many activations will the promo code have? Enter a whole number (e.g. 100):")

	case statePromoActivations:
		activations, err := parsePositiveInt(text)
		if err != nil {
			b.reply(chatID, "Enter a positive whole number for the activations.")
			return
		}
		b.conversations.clear(userID)

		err = b.promos.CreatePromo(ctx, conv.code, conv.stars, int(activations))
		if errors.Is(err, models.ErrAlreadyExists) {
			b.reply(chatID, "This promo code already exists. Operation cancelled.")
			return
		}
		if err != nil {
			log.WithError(err).Error("Promo creation failed")
			b.reply(chatID, "Something went wrong, please try again.")
			return
		}

		link := fmt.Sprintf("https://t.me/%s?start=promo_%s", b.config.BotUsername, conv.code)
		b.reply(chatID, fmt.Sprintf(
			"Promo code created:\nCode: %s\nStars: %d\nActivations: %d\n\nLink: %s",
			conv.code, conv.stars, activations, link,
		))

	default:
		b.conversations.clear(userID)
		b.sendMenuHint(chatID)
	}
}

func (b *Bot) sendMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, welcomeText)
	msg.ReplyMarkup = menuKeyboard()
	b.send(msg)
}

func (b *Bot) sendMenuHint(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Use the menu — press /start to open it.")
	msg.ReplyMarkup = menuKeyboard()
	b.send(msg)
}

func (b *Bot) editMenu(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb))
}

// claimErrorText maps claim failures to user messages
func claimErrorText(err error, what string) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fmt.Sprintf("This %s was not found or is no longer valid.", what)
	case errors.Is(err, models.ErrExhausted):
		return fmt.Sprintf("This %s has no activations left.", what)
	case errors.Is(err, models.ErrAlreadyRedeemed):
		return fmt.Sprintf("You have already activated this %s.", what)
	default:
		return "Something went wrong, please try again."
	}
}

func parsePositiveInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive")
	}
	return n, nil
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return strconv.FormatInt(user.ID, 10)
}
