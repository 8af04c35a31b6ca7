package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tiffinbox/internal/auth"
	"tiffinbox/internal/common/config"
	"tiffinbox/internal/common/db"
	"tiffinbox/internal/common/httpx"
	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/common/mq"
	"tiffinbox/internal/menu"
	"tiffinbox/internal/notify"
	"tiffinbox/internal/order"
	"tiffinbox/internal/server"
)

func main() {
	mode := flag.String("mode", "api-server", "api-server | notification-subscriber")
	port := flag.Int("port", 0, "override HTTP_PORT for the api-server")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		lg.Error("config_failed", err, nil)
		os.Exit(1)
	}

	switch *mode {
	case "api-server":
		if *port != 0 {
			cfg.HTTPPort = *port
		}
		lg.Info("service_started", map[string]any{"service": "api-server", "port": cfg.HTTPPort})
		if err := runAPIServer(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		if err := runSubscriber(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: api-server | notification-subscriber")
		os.Exit(2)
	}
}

func runAPIServer(ctx context.Context, cfg config.App) error {
	lg := logger.New("api-server")

	if err := db.Migrate(cfg.Database); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	broker, err := mq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer broker.Close()
	if err := broker.DeclareAll(); err != nil {
		return fmt.Errorf("declare broker topology: %w", err)
	}

	menuRepo, err := menu.NewRepository(cfg.MenuFile)
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}
	authSvc, err := auth.NewService(cfg.UsersFile, cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	orders := order.NewService(
		order.NewSQLRepository(pool),
		menuRepo,
		order.NewMQPublisher(broker),
		lg.With(map[string]any{"component": "orders"}),
	)

	srv := server.New(orders, menuRepo, authSvc, lg)
	httpSrv := httpx.New(fmt.Sprintf(":%d", cfg.HTTPPort), srv.Router())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpSrv.Run(ctx) })
	return g.Wait()
}

func runSubscriber(ctx context.Context, cfg config.App) error {
	lg := logger.New("notification-subscriber")

	broker, err := mq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer broker.Close()
	if err := broker.DeclareAll(); err != nil {
		return fmt.Errorf("declare broker topology: %w", err)
	}

	sub := notify.NewSubscriber(broker, lg)
	if err := sub.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
