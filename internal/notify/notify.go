// Package notify is the notification collaborator: it turns domain
// events into log lines. Losing an event costs nothing but a missing
// toast somewhere downstream.
package notify

import (
	"context"
	"log/slog"

	"gira-service/internal/core"
)

type SlogNotifier struct {
	log *slog.Logger
}

func New(log *slog.Logger) *SlogNotifier {
	return &SlogNotifier{log: log}
}

func (n *SlogNotifier) Notify(_ context.Context, ev core.Event) {
	n.log.Info("Domain event",
		slog.String("event", ev.EventName()),
		slog.Any("payload", ev),
	)
}
