package usecase

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

// flavorTexts holds the alert body phrasings per health label. The choice
// among them is cosmetic.
var flavorTexts = map[entities.HealthStatus][]string{
	entities.HealthThirsty: {
		"I'm parched! A little water, please?",
		"Water me! \"desert music starts playing\"",
		"I need a drink! Just no alcohol this time.",
	},
	entities.HealthOverwatered: {
		"I'm drowning over here. Throw me a floaty!",
		"Tell the captain I'm going down!",
		"Too much water! Drain me a bit!",
	},
	entities.HealthTooCold: {
		"Brrr! It's freezing!",
		"Warm me up!",
		"Is there a window open? I'm cold!",
	},
	entities.HealthTooHot: {
		"I'm sweating! Put me in the freezer! (just kidding don't)",
		"It's like an oven in here! Help!",
		"Okay I like summer but this is too much! Get me some shade!",
	},
	entities.HealthFreezingRisk: {
		"EMERGENCY! I'm a popsicle!",
		"Save me from the cold, I am turning into a snowman!",
		"Give me a blanket or something!",
	},
	entities.HealthDryAir: {
		"My leaves are getting crispy. Where's the humidity?",
		"I feel like I'm living in a hair dryer. Send mist!",
		"I am drier than the texts from your crush, please spray me a bit.",
	},
	entities.HealthTooHumid: {
		"It's like a Turkish sauna in here!",
		"I can barely breathe, it's too soggy!",
		"Give me some fresh air, It's worse than a rainforest in here!",
	},
}

const fallbackFlavorText = "Something feels off... can you take a look at me?"

// Notifier dispatches care alerts and silent refresh signals to the push
// collaborator. Every send is fire-and-forget: delivery failure is logged
// and swallowed so a dead push channel can never block telemetry
// ingestion or sweep progress.
type Notifier struct {
	sender repositories.PushSender
	logger *zap.Logger
	pick   func(n int) int
}

// NewNotifier creates a new notifier. pick selects among the flavor texts
// for a label; pass nil for a pseudo-random choice.
func NewNotifier(sender repositories.PushSender, logger *zap.Logger, pick func(n int) int) *Notifier {
	if pick == nil {
		pick = rand.Intn
	}
	return &Notifier{
		sender: sender,
		logger: logger,
		pick:   pick,
	}
}

// SilentRefresh sends a data-only message nudging the owner's app to
// re-pull plant state.
func (n *Notifier) SilentRefresh(ctx context.Context, ownerID string) {
	n.deliver(ctx, repositories.Notification{UserID: ownerID})
}

// HealthAlert sends a user-visible alert for a non-healthy status change.
func (n *Notifier) HealthAlert(ctx context.Context, plant *entities.Plant, status entities.HealthStatus) {
	n.deliver(ctx, repositories.Notification{
		UserID: plant.OwnerID,
		Title:  fmt.Sprintf("Sprouty Alert: %s needs attention!", plant.DisplayName()),
		Body:   n.flavorText(status),
	})
}

// WateringReminder sends a calendar- or sensor-backed watering alert.
// reason explains which evidence triggered it.
func (n *Notifier) WateringReminder(ctx context.Context, plant *entities.Plant, reason string) {
	n.deliver(ctx, repositories.Notification{
		UserID: plant.OwnerID,
		Title:  "Sprouty: Thirsty Plant! \U0001F4A7",
		Body:   fmt.Sprintf("%s needs attention: %s", plant.DisplayName(), reason),
	})
}

// ConnectionLost alerts the owner that a sensor has gone silent.
func (n *Notifier) ConnectionLost(ctx context.Context, plant *entities.Plant) {
	n.deliver(ctx, repositories.Notification{
		UserID: plant.OwnerID,
		Title:  fmt.Sprintf("Connection Lost: %s", plant.DisplayName()),
		Body:   "We haven't heard from your sensor in 24 hours. Check its battery!",
	})
}

func (n *Notifier) deliver(ctx context.Context, notification repositories.Notification) {
	if _, err := n.sender.Send(ctx, notification); err != nil {
		n.logger.Error("Notification delivery failed",
			zap.String("user_id", notification.UserID),
			zap.String("title", notification.Title),
			zap.Error(err))
	}
}

func (n *Notifier) flavorText(status entities.HealthStatus) string {
	texts, ok := flavorTexts[status]
	if !ok || len(texts) == 0 {
		return fallbackFlavorText
	}
	return texts[n.pick(len(texts))%len(texts)]
}
