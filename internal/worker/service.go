package worker

import (
	"context"
	"log/slog"

	"musafir/internal/config"
	"musafir/internal/database"
	"musafir/internal/messaging"
	"musafir/internal/models"
	"musafir/internal/repository"
	"musafir/internal/service"
)

// Worker runs the NATS consumers and the booking expiration sweep.
type Worker struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
	expirer  *ExpirationJob
}

func New(cfg *config.Config) (*Worker, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	bookings := service.NewBookingService(repos.Bookings, repos.Events, repos.Users, natsClient)

	return &Worker{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: NewHandlers(repos),
		expirer:  NewExpirationJob(bookings, cfg.BookingExpiration, cfg.ExpirationSweep),
	}, nil
}

func (w *Worker) Start(ctx context.Context) error {
	slog.Info("Starting NATS consumers...")

	if _, err := w.nats.SubscribeQueue(models.EventBookingCreated, "workers", w.handlers.HandleBookingCreated); err != nil {
		return err
	}
	if _, err := w.nats.SubscribeQueue(models.EventBookingCancelled, "workers", w.handlers.HandleBookingCancelled); err != nil {
		return err
	}
	if _, err := w.nats.SubscribeQueue(models.EventBookingExpired, "workers", w.handlers.HandleBookingExpired); err != nil {
		return err
	}
	if _, err := w.nats.SubscribeQueue(models.EventPaymentCaptured, "workers", w.handlers.HandlePaymentCaptured); err != nil {
		return err
	}
	if _, err := w.nats.SubscribeQueue(models.EventPaymentFailed, "workers", w.handlers.HandlePaymentFailed); err != nil {
		return err
	}
	if _, err := w.nats.SubscribeQueue(models.EventPaymentRefunded, "workers", w.handlers.HandlePaymentRefunded); err != nil {
		return err
	}

	w.expirer.Start(ctx)
	return nil
}

func (w *Worker) Shutdown() {
	w.expirer.Stop()

	if err := w.nats.Close(); err != nil {
		slog.Error("Error closing NATS connection", "error", err)
	}
	if err := w.db.Close(); err != nil {
		slog.Error("Error closing database connection", "error", err)
	}
}
