// Command laundry-migrate brings the schema up to date and declares the
// broker topology, then exits. Run it before the services on a fresh stack.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/config"
	"laundry-service/internal/connections/database"
	"laundry-service/internal/connections/rabbitmq"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	lg := logger.New("laundry-migrate")
	if err := run(*cfgPath, lg); err != nil {
		lg.Error("migrate_failed", err, nil)
		os.Exit(1)
	}
}

func run(cfgPath string, lg *logger.Logger) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	before, err := database.SchemaVersion(ctx, db)
	if err != nil {
		// schema_version does not exist yet on a fresh database
		before = "0.0.0"
	}
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	after, err := database.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	lg.Info("schema_migrated", map[string]any{"driver": cfg.Database.Driver, "from": before, "to": after})

	if !cfg.RabbitMQ.Enabled {
		return nil
	}
	rmq, err := rabbitmq.Dial(rabbitmq.FromConfig(cfg.RabbitMQ, "laundry-migrate"))
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.Ping(); err != nil {
		return err
	}
	if err := rmq.DeclareTopology(); err != nil {
		return err
	}
	lg.Info("topology_declared", map[string]any{
		"exchange": rabbitmq.ExchangeNotifications,
		"queue":    rabbitmq.QueueNotifications,
	})
	return nil
}
