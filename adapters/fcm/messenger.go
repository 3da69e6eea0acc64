// Package fcm delivers push notifications through Firebase Cloud
// Messaging, the push collaborator behind the mobile app.
package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/sproutyapp/server/domain/repositories"
)

// Messenger implements repositories.PushSender on top of the Firebase
// Admin SDK. The device token is resolved from the user record at send
// time so token rotation never needs engine coordination.
type Messenger struct {
	client *messaging.Client
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewMessenger creates a Messenger from a service-account credentials file.
func NewMessenger(ctx context.Context, projectID, credentialsFile string, users repositories.UserRepository, logger *zap.Logger) (*Messenger, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}

	logger.Info("FCM messenger initialized", zap.String("project_id", projectID))

	return &Messenger{
		client: client,
		users:  users,
		logger: logger,
	}, nil
}

// Send implements repositories.PushSender
func (m *Messenger) Send(ctx context.Context, n repositories.Notification) (string, error) {
	user, err := m.users.GetByID(ctx, n.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve notification target %s: %w", n.UserID, err)
	}
	if user.FCMToken == "" {
		// Nothing to deliver to; the app re-registers its token on next launch.
		m.logger.Info("Skipping push: user has no FCM token", zap.String("user_id", n.UserID))
		return "", nil
	}

	data := map[string]string{
		"action": "REFRESH_PLANTS",
		"userId": n.UserID,
	}
	for k, v := range n.Data {
		data[k] = v
	}

	message := &messaging.Message{
		Token: user.FCMToken,
		Data:  data,
	}
	if n.Displayable() {
		message.Notification = &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		}
	}

	deliveryID, err := m.client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("FCM delivery failed for user %s: %w", n.UserID, err)
	}

	m.logger.Info("Successfully sent FCM message",
		zap.String("user_id", n.UserID),
		zap.String("delivery_id", deliveryID))
	return deliveryID, nil
}
