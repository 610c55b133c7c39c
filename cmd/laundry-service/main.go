package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/config"
	"laundry-service/internal/microservices/admin"
	"laundry-service/internal/microservices/notificator"
	"laundry-service/internal/microservices/order"
)

const modes = "order-service | admin-service | notification-subscriber"

func main() {
	mode := flag.String("mode", "", modes)
	port := flag.Int("port", 0, "http port for services that expose HTTP")
	maxConc := flag.Int("max-concurrent", 50, "http services: max concurrent requests")
	prefetch := flag.Int("prefetch", 10, "notification-subscriber: RabbitMQ prefetch")
	cfgPath := flag.String("config", "", "path to YAML config (default: config.yaml, then deploy/config.example.yaml)")
	flag.Parse()

	if err := validateFlags(*port, *maxConc, *prefetch); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lg := logger.New("bootstrap")
	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		lg.Warn("log_level_ignored", map[string]any{"level": cfg.Log.Level})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "order-service":
		if *port == 0 {
			*port = 3000
		}
		run(lg, "order-service", func(svcLog *logger.Logger) error {
			return order.Run(ctx, cfg, *port, *maxConc, svcLog)
		})
	case "admin-service":
		if *port == 0 {
			*port = 3001
		}
		run(lg, "admin-service", func(svcLog *logger.Logger) error {
			return admin.Run(ctx, cfg, *port, *maxConc, svcLog)
		})
	case "notification-subscriber":
		run(lg, "notification-subscriber", func(svcLog *logger.Logger) error {
			return notificator.Run(ctx, cfg, *prefetch, svcLog)
		})
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: "+modes)
		os.Exit(2)
	}
}

func run(lg *logger.Logger, service string, fn func(*logger.Logger) error) {
	if err := fn(logger.New(service)); err != nil {
		lg.Error("fatal", err, map[string]any{"mode": service})
		os.Exit(1)
	}
	lg.Info("service_stopped", map[string]any{"mode": service})
}

func validateFlags(port, maxConcurrent, prefetch int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("--port %d is out of range", port)
	}
	if maxConcurrent <= 0 {
		return errors.New("--max-concurrent must be positive")
	}
	if prefetch < 0 {
		return errors.New("--prefetch must not be negative")
	}
	return nil
}
