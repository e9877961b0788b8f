package worker

import (
	"context"
	"log/slog"
	"time"

	"musafir/internal/service"
)

// ExpirationJob cancels PENDING bookings whose payment never arrived, on a
// fixed sweep interval.
type ExpirationJob struct {
	bookings *service.BookingService
	maxAge   time.Duration
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

func NewExpirationJob(bookings *service.BookingService, maxAge, interval time.Duration) *ExpirationJob {
	return &ExpirationJob{
		bookings: bookings,
		maxAge:   maxAge,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *ExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting booking expiration job",
		"max_age", j.maxAge.String(),
		"interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	// Run an initial sweep immediately
	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.sweep(ctx)
			case <-j.done:
				slog.Info("Booking expiration job stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (j *ExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *ExpirationJob) sweep(ctx context.Context) {
	expired, err := j.bookings.ExpirePending(ctx, j.maxAge)
	if err != nil {
		slog.Error("Booking expiration sweep failed", "error", err)
		return
	}
	if expired > 0 {
		slog.Info("Expired stale bookings", "count", expired)
	}
}
