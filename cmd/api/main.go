package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/clientbook/internal/config"
	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/infra/auth"
	"github.com/xavierca1/clientbook/internal/infra/database"
	"github.com/xavierca1/clientbook/internal/infra/http/handlers"
	"github.com/xavierca1/clientbook/internal/infra/http/middleware"
	"github.com/xavierca1/clientbook/internal/infra/integration/whatsapp"
	"github.com/xavierca1/clientbook/internal/infra/mail"
	"github.com/xavierca1/clientbook/internal/infra/queue"
	"github.com/xavierca1/clientbook/internal/infra/store/local"
	"github.com/xavierca1/clientbook/internal/infra/store/memory"
	"github.com/xavierca1/clientbook/internal/infra/worker"
	"github.com/xavierca1/clientbook/internal/logger"
	"github.com/xavierca1/clientbook/internal/projection"
	"github.com/xavierca1/clientbook/internal/repository"
	"github.com/xavierca1/clientbook/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		logger.Log.WithError(err).Fatal("❌ clientbook stopped")
	}
}

func run() error {
	cfg, err := config.New(".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init("clientbook", cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Broker (eventos e, opcionalmente, o change feed)
	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
	}

	// 2. Record store
	var db *sql.DB
	var store entity.RecordStore

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err = database.NewDBConnection(cfg.DatabaseURL, cfg.DBMaxOpenConns)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.UpMigrations(db); err != nil {
			return err
		}

		var feed database.ChangeFeed = database.NewPgNotifyFeed(db, cfg.DatabaseURL)
		if cfg.ChangeFeed == config.FeedRabbitMQ {
			feed = queue.NewRabbitFeed(rabbitMQ)
		}

		recordStore := database.NewRecordStore(db, feed)
		go recordStore.Run(ctx)
		store = recordStore

	case config.BackendLocal:
		localStore, err := local.Open(cfg.LocalStorePath)
		if err != nil {
			return err
		}
		store = localStore

	default:
		logger.Log.Warn("⚠️ using the in-memory store, data is lost on restart")
		store = memory.NewStore()
	}
	logger.Log.Infof("🗄️ record store: %s", cfg.StoreBackend)

	// 3. Repositórios e projeção
	repo := repository.NewClientRepository(store)

	engine := projection.NewEngine(repo)
	engine.OnProjected(publishStats)
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("subscribe to clients: %w", err)
	}
	defer engine.Stop()

	go worker.NewStatsWorker(engine, publishStats, cfg.StatsInterval).Start(ctx)

	// 4. Notificações
	var notifier usecase.Notifier = usecase.LogNotifier{}
	if rabbitMQ != nil {
		notifier = queue.NewEventProducer(rabbitMQ.Ch)

		eventsCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			return fmt.Errorf("open events channel: %w", err)
		}
		defer eventsCh.Close()

		eventWorker := queue.NewWorker(eventsCh, recordEvent)
		go func() {
			if err := eventWorker.Start(ctx, queue.EventsQueue); err != nil {
				logger.Log.WithError(err).Error("❌ event worker stopped")
			}
		}()
	}

	// 5. Gateways de envio (email, WhatsApp)
	var emailService usecase.EmailService
	if cfg.Mail.Enabled() {
		emailService = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	}
	var whatsappService usecase.WhatsAppService
	if cfg.WhatsApp.Enabled() {
		whatsappService = whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneID)
	}

	authenticator, err := auth.NewPasswordAuthenticator(cfg.Auth.Username, cfg.Auth.PasswordHash, cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}

	// 6. UseCases
	createUC := usecase.NewCreateClientUseCase(repo, notifier)
	updateUC := usecase.NewUpdateClientUseCase(repo, notifier)
	paymentUC := usecase.NewRecordPaymentUseCase(repo, notifier)
	deleteUC := usecase.NewDeleteClientUseCase(repo, notifier)
	composeUC := usecase.NewComposeMessagesUseCase(repo)
	sendUC := usecase.NewSendMessageUseCase(repo, emailService, whatsappService, notifier)
	scriptUC := usecase.NewScriptUseCase(repository.NewScriptRepository(store))

	// 7. Handlers
	authHandler := handlers.NewAuthHandler(authenticator)
	defer authHandler.Close()

	var rabbitConn *amqp.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}

	router := newRouter(routes{
		auth:     authHandler,
		clients:  handlers.NewClientHandler(engine, repo, createUC, updateUC, paymentUC, deleteUC),
		messages: handlers.NewMessageHandler(composeUC, sendUC),
		scripts:  handlers.NewScriptHandler(scriptUC),
		health:   handlers.NewHealthHandler(db, rabbitConn, engine, cfg.StoreBackend),
		verifier: authenticator,
		origins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("🔥 clientbook API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Log.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func publishStats(s projection.Stats) {
	middleware.RecordClientStats(middleware.ClientCounts{
		Total:     s.Total,
		Today:     s.Today,
		Approach:  s.Approach,
		Confirmed: s.Confirmed,
		Responded: s.Responded,
	})
}

func recordEvent(ctx context.Context, event entity.ClientEvent) error {
	middleware.RecordClientEvent(string(event.Type))
	logger.Log.WithField("client_id", event.ClientID).Infof("🔔 %s", event.Type)
	return nil
}
