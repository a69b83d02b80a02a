package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

type pacer struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	logger   *slog.Logger
}

// Wait blocks until interval has passed since the previous query finished.
func (p *pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 || p.last.IsZero() {
		return nil
	}
	wait := p.interval - p.now().Sub(p.last)
	if wait <= 0 {
		return nil
	}
	p.logger.Info("waiting (rate limit)", "wait", wait)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Done marks the end of a query, successful or not.
func (p *pacer) Done() {
	p.last = p.now()
}

type pacedSource struct {
	source Source
	pacer  *pacer
	turn   chan struct{}
}

// Paced runs queries to src one at a time, leaving at least interval between
// the end of one query and the start of the next.
func Paced(src Source, interval time.Duration, logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &pacedSource{
		source: src,
		pacer:  &pacer{interval: interval, now: time.Now, logger: logger},
		turn:   make(chan struct{}, 1),
	}
}

func (p *pacedSource) Search(ctx context.Context, q Query) ([]domain.RawLeg, error) {
	select {
	case p.turn <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.turn }()

	if err := p.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	defer p.pacer.Done()
	return p.source.Search(ctx, q)
}
