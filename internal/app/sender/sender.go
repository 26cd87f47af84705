// Package sender assembles the notification sender worker: it consumes
// subscription events from the broker and mails the readers.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/ignews-app/ignews-backend/internal/config"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/lib/smtp"
	"github.com/ignews-app/ignews-backend/internal/rabbitmq"
	senderservice "github.com/ignews-app/ignews-backend/internal/services/sender"
)

// App is the assembled sender worker.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	service *senderservice.Service
	logger  *slog.Logger
}

// New wires the worker from the configuration.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.Rabbit.Connection, cfg.Rabbit.RetriesCount, cfg.Rabbit.RetriesDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	service := senderservice.New(transport, logger)

	return &App{
		conn:    conn,
		ch:      ch,
		service: service,
		logger:  logger,
	}, nil
}

// Run consumes the subscription queue until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.SubscriptionQueue, a.service.SendSubscriptionStatusChanged)
	if err != nil {
		a.logger.Error("failed to start subscription queue consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender worker shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close broker channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close broker connection", sl.Err(err))
	}
	return nil
}
