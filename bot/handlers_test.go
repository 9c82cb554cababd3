package bot

import (
	"context"
	"fmt"
	"testing"

	"starbot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCallback_NilMessage(t *testing.T) {
	b := &Bot{conversations: newConversationStore()}

	// Inline-mode callbacks carry no message; the handler must bail out
	// before touching the chat. Any dereference here would panic because
	// the bot has no API client wired.
	cb := &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: 1},
		Data: "profile",
	}

	assert.NotPanics(t, func() {
		b.handleCallback(context.Background(), cb)
	})
}

func TestClaimErrorText(t *testing.T) {
	wrapped := fmt.Errorf("check abc: %w", models.ErrExhausted)

	assert.Equal(t, "This check has no activations left.", claimErrorText(wrapped, "check"))
	assert.Equal(t, "This promo code was not found or is no longer valid.", claimErrorText(models.ErrNotFound, "promo code"))
	assert.Equal(t, "You have already activated this check.", claimErrorText(models.ErrAlreadyRedeemed, "check"))
	assert.Equal(t, "Something went wrong, please try again.", claimErrorText(fmt.Errorf("boom"), "check"))
}

func TestParsePositiveInt(t *testing.T) {
	n, err := parsePositiveInt("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = parsePositiveInt("0")
	assert.Error(t, err)

	_, err = parsePositiveInt("-3")
	assert.Error(t, err)

	_, err = parsePositiveInt("abc")
	assert.Error(t, err)

	_, err = parsePositiveInt("3.5")
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "@alice", displayName(&tgbotapi.User{ID: 1, UserName: "alice", FirstName: "Alice"}))
	assert.Equal(t, "Alice", displayName(&tgbotapi.User{ID: 1, FirstName: "Alice"}))
	assert.Equal(t, "1", displayName(&tgbotapi.User{ID: 1}))
}

func TestTrimAt(t *testing.T) {
	assert.Equal(t, "mychannel", trimAt("@mychannel"))
	assert.Equal(t, "mychannel", trimAt("mychannel"))
	assert.Equal(t, "", trimAt(""))
}

func TestConversationStore(t *testing.T) {
	store := newConversationStore()

	assert.Nil(t, store.get(1))

	store.set(1, &conversation{state: stateCheckAmount, amount: 50})
	conv := store.get(1)
	require.NotNil(t, conv)
	assert.Equal(t, stateCheckAmount, conv.state)
	assert.Equal(t, int64(50), conv.amount)

	store.clear(1)
	assert.Nil(t, store.get(1))
}
