// Package notifier turns match updates into chat alerts.
package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// Sender delivers an alert message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Notifier sends each new match event once.
type Notifier struct {
	sender Sender
	gate   Gate
	logger *slog.Logger
}

// NewNotifier creates a notifier
func NewNotifier(sender Sender, gate Gate, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		sender: sender,
		gate:   gate,
		logger: logger.With("component", "notifier"),
	}
}

// OnMatchUpdate alerts on every event of state not sent before.
func (n *Notifier) OnMatchUpdate(ctx context.Context, matchKey string, state *models.MatchState) error {
	var errs []error
	for _, ev := range DeriveEvents(state) {
		ok, err := n.gate.ShouldAlert(ctx, matchKey, ev.Key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}

		if err := n.sender.Send(ctx, ev.Text); err != nil {
			errs = append(errs, err)
			continue
		}
		n.logger.Info("alert sent", "match", matchKey, "event", ev.Key)
	}
	return errors.Join(errs...)
}
