// Package ignews assembles the main HTTP application: storage,
// migrations, cache, payment and content provider clients, the message
// broker and the route table.
package ignews

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/ignews-app/ignews-backend/internal/cache"
	"github.com/ignews-app/ignews-backend/internal/config"
	"github.com/ignews-app/ignews-backend/internal/contentprovider"
	"github.com/ignews-app/ignews-backend/internal/lib/jwt"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/migrations"
	"github.com/ignews-app/ignews-backend/internal/paymentprovider"
	"github.com/ignews-app/ignews-backend/internal/rabbitmq"
	authservice "github.com/ignews-app/ignews-backend/internal/services/auth"
	checkoutservice "github.com/ignews-app/ignews-backend/internal/services/checkout"
	contentservice "github.com/ignews-app/ignews-backend/internal/services/content"
	syncservice "github.com/ignews-app/ignews-backend/internal/services/sync"
	"github.com/ignews-app/ignews-backend/internal/storage/repository"
)

// App is the assembled HTTP application.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New wires the application from the configuration. The broker is
// optional: when no connection string is configured the synchronizer
// runs without the notification pipeline.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	paymentClient := paymentprovider.NewClient(cfg.Stripe)
	contentClient := contentprovider.NewClient(cfg.Prismic)
	tokenMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	var (
		rabbitConn *amqp.Connection
		rabbitCh   *amqp.Channel
		publisher  syncservice.EventPublisher
	)
	if cfg.Rabbit.Connection != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.Rabbit.Connection, cfg.Rabbit.RetriesCount, cfg.Rabbit.RetriesDelay)
		if err != nil {
			return nil, err
		}
		rabbitCh, err = rabbitmq.SetupChannel(rabbitConn)
		if err != nil {
			rabbitConn.Close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(rabbitCh)
	} else {
		logger.Warn("message broker not configured, notifications disabled")
	}

	authService := authservice.New(db, tokenMaker, logger)
	checkoutService := checkoutservice.New(db, paymentClient, cfg.Stripe.PriceID, logger)
	syncService := syncservice.New(db, paymentClient, publisher, logger)
	contentService := contentservice.New(contentClient, cacheRedis, cfg.Prismic.CacheTTL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:     authService,
		Checkout: checkoutService,
		Sync:     syncService,
		Content:  contentService,
		Maker:    tokenMaker,
		DB:       db,
	}, cfg.Stripe.WebhookSecret)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.rabbitCh != nil {
			if closeErr := a.rabbitCh.Close(); closeErr != nil {
				a.logger.Error("failed to close broker channel", sl.Err(closeErr))
			}
		}
		if a.rabbitConn != nil {
			if closeErr := a.rabbitConn.Close(); closeErr != nil {
				a.logger.Error("failed to close broker connection", sl.Err(closeErr))
			}
		}
		a.db.DB.Close()
		return err
	}
}
