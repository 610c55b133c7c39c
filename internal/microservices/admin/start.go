package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"laundry-service/internal/common/httpx"
	"laundry-service/internal/common/logger"
	"laundry-service/internal/config"
	"laundry-service/internal/connections/database"
	"laundry-service/internal/microservices/admin/handlers"
	"laundry-service/internal/microservices/admin/repository"
	"laundry-service/internal/microservices/admin/service"
	dirrepo "laundry-service/internal/microservices/directory/repository"
	orderrepo "laundry-service/internal/microservices/order/repository"
)

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

	svc := service.New(
		repository.New(db),
		orderrepo.NewOrderRepository(db),
		dirrepo.NewDirectoryRepository(db),
		lg,
	)
	handler := handlers.New(svc, lg)

	h := httpx.Chain(handlers.Router(handler),
		httpx.RequestID(),
		httpx.Logging(lg),
		httpx.Limit(int64(maxConcurrent), limitWait),
	)
	srv := httpx.New(":"+strconv.Itoa(port), h, cfg.Server)
	lg.Info("service_started", map[string]any{"port": port, "max_concurrent": maxConcurrent})
	return srv.Run(ctx)
}
