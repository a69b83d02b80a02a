// Package notify turns search events into one-line summaries for operators.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/roundtrip/internal/kafka"
)

type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{logger: logger}
}

func (n *Notifier) Send(ctx context.Context, event kafka.SearchEvent) error {
	n.logger.InfoContext(ctx, Summary(event),
		"type", event.Type,
		"search_id", event.SearchID,
		"at", event.At,
	)
	return nil
}

func Summary(event kafka.SearchEvent) string {
	route := fmt.Sprintf("%s→%s", event.Origin, event.Destination)
	switch event.Type {
	case kafka.EventSearchCompleted:
		return fmt.Sprintf("%s: %d combos from $%d (%d both-nonstop)",
			route, event.Combinations, event.CheapestPrice, event.NonstopCount)
	case kafka.EventSearchEmpty:
		return fmt.Sprintf("%s: %d outbound / %d return matched filters but 0 valid combinations",
			route, event.OutboundMatched, event.ReturnMatched)
	case kafka.EventSearchFailed:
		return fmt.Sprintf("%s: search failed: %s", route, event.Error)
	default:
		return fmt.Sprintf("%s: %s", route, event.Type)
	}
}
