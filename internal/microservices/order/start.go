package order

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"laundry-service/internal/common/httpx"
	"laundry-service/internal/common/logger"
	"laundry-service/internal/config"
	"laundry-service/internal/connections/database"
	"laundry-service/internal/connections/rabbitmq"
	dirrepo "laundry-service/internal/microservices/directory/repository"
	notifhandlers "laundry-service/internal/microservices/notification/handlers"
	notifrepo "laundry-service/internal/microservices/notification/repository"
	notifservice "laundry-service/internal/microservices/notification/service"
	"laundry-service/internal/microservices/order/handlers"
	"laundry-service/internal/microservices/order/repository"
	"laundry-service/internal/microservices/order/service"
)

// limitWait is how long a request may queue for a concurrency slot.
const limitWait = 2 * time.Second

func Run(ctx context.Context, cfg *config.Config, port, maxConcurrent int, lg *logger.Logger) error {
	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rmq, err := rabbitmq.Dial(rabbitmq.FromConfig(cfg.RabbitMQ, "order-service"))
		if err != nil {
			return err
		}
		defer rmq.Close()
		if err := rmq.DeclareTopology(); err != nil {
			return err
		}
		events = service.NewRabbitPublisher(rmq)
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host, "port": cfg.RabbitMQ.Port})
	}

	repo := repository.New(db)
	svc := service.New(repo, dirrepo.NewDirectoryRepository(db), events, lg)

	notifications := notifservice.NewNotificationService(notifrepo.New(db).NotificationRepo, lg)
	handler := handlers.New(svc, notifhandlers.NewNotificationHandler(notifications, lg), lg)

	h := httpx.Chain(handlers.Router(handler),
		httpx.RequestID(),
		httpx.Logging(lg),
		httpx.Limit(int64(maxConcurrent), limitWait),
	)
	srv := httpx.New(":"+strconv.Itoa(port), h, cfg.Server)
	lg.Info("service_started", map[string]any{"port": port, "max_concurrent": maxConcurrent})
	return srv.Run(ctx)
}
