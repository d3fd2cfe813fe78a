package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/autana/helpdesk/internal/bot"
	"github.com/autana/helpdesk/internal/config"
	"github.com/autana/helpdesk/internal/database"
	"github.com/autana/helpdesk/internal/handler"
	"github.com/autana/helpdesk/internal/kafka"
	"github.com/autana/helpdesk/internal/router"
	"github.com/autana/helpdesk/internal/service"
)

// API приложение: HTTP сервер (режим api).
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
}

// NewAPI создаёт приложение для режима api.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)

	userSvc := service.NewUserService(db)
	ticketSvc := service.NewTicketService(db)
	messageSvc := service.NewMessageService(db)
	adminSvc := service.NewAdminService(db)

	messageHandler := handler.NewMessageHandler(messageSvc, ticketSvc, producer)
	if cfg.BotAutoReply {
		messageHandler.EnableAutoReply(bot.NewScripted(cfg.BotName), cfg.BotName)
	}

	mux := router.New(router.Handlers{
		Auth:    handler.NewAuthHandler(userSvc),
		Ticket:  handler.NewTicketHandler(ticketSvc, producer),
		Message: messageHandler,
		Admin:   handler.NewAdminHandler(adminSvc, userSvc, ticketSvc),
	}, cfg.CORSOrigins)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, httpSrv: httpSrv, producer: producer}, nil
}

// Run запускает HTTP сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	return nil
}
