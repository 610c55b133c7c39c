package notificator

import (
	"context"
	"errors"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/config"
	"laundry-service/internal/connections/rabbitmq"
	"laundry-service/internal/microservices/notificator/service"
)

func Run(ctx context.Context, cfg *config.Config, prefetch int, lg *logger.Logger) error {
	if !cfg.RabbitMQ.Enabled {
		return errors.New("notification-subscriber needs rabbitmq.enabled: true")
	}
	rmq, err := rabbitmq.Dial(rabbitmq.FromConfig(cfg.RabbitMQ, "notification-subscriber"))
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return err
	}

	svc := service.New(rmq, lg, prefetch)
	return svc.NotificatorService.Run(ctx)
}
