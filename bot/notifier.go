package bot

import (
	"context"
	"fmt"

	"starbot/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// RegisterNotifications subscribes the creator-notification handler to the
// event bus. Claim events are published only after their transaction has
// committed; delivery is best effort and a failure never reaches the
// claimant.
func RegisterNotifications(bus *events.Bus, api *tgbotapi.BotAPI) {
	bus.Subscribe(events.EventTypeCheckClaimed, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.CheckClaimedEvent)
		if !ok {
			return
		}

		text := fmt.Sprintf(
			"Your check %s was activated by %s. Activations left: %d",
			e.CheckID, e.ClaimantName, e.ActivationsLeft,
		)
		if _, err := api.Send(tgbotapi.NewMessage(e.CreatorID, text)); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"checkID":   e.CheckID,
				"creatorID": e.CreatorID,
			}).Debug("Creator notification failed")
		}
	})
}
