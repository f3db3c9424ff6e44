// Package notify defines the open-notification hook: senders who opted in
// are told when their message was first viewed. Actual delivery (email) is
// an external collaborator; the shipped implementation only logs.
package notify

import (
	"context"

	"github.com/muliswilliam/secureshare/internal/logging"
	"github.com/muliswilliam/secureshare/internal/server/models"
)

// Notifier is invoked after a message transitions to seen. Implementations
// must tolerate being called at most once per message and must not block the
// consume path on delivery.
type Notifier interface {
	MessageOpened(ctx context.Context, userID, publicID string, info models.ClientInfo) error
}

// LogNotifier records the open in the structured log. It stands in for the
// email collaborator in deployments without one.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) MessageOpened(ctx context.Context, userID, publicID string, info models.ClientInfo) error {
	n.logger.Info(ctx, "message opened",
		"public_id", publicID,
		"user_id", userID,
		"ip_address", info.IPAddress,
		"user_agent", info.UserAgent,
	)
	return nil
}
