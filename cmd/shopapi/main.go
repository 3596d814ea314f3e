package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	cartapp "github.com/webshop-go/shop-backend/internal/cart/app"
	cartpg "github.com/webshop-go/shop-backend/internal/cart/infra/postgres"
	catalogapp "github.com/webshop-go/shop-backend/internal/catalog/app"
	catalogpg "github.com/webshop-go/shop-backend/internal/catalog/infra/postgres"
	checkoutapp "github.com/webshop-go/shop-backend/internal/checkout/app"
	"github.com/webshop-go/shop-backend/internal/httpapi"
	"github.com/webshop-go/shop-backend/internal/importer"
	orderapp "github.com/webshop-go/shop-backend/internal/order/app"
	orderpg "github.com/webshop-go/shop-backend/internal/order/infra/postgres"
	"github.com/webshop-go/shop-backend/migrations"
	"github.com/webshop-go/shop-backend/pkg/config"
	"github.com/webshop-go/shop-backend/pkg/logger"
	"github.com/webshop-go/shop-backend/pkg/shutdown"
)

func main() {
	app := &cli.App{
		Name:  "shopapi",
		Usage: "shop backend HTTP API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API server",
				Action: func(*cli.Context) error { return serve() },
			},
			{
				Name:   "migrate",
				Usage:  "apply schema migrations",
				Action: func(*cli.Context) error { return runMigrations() },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		Service:   "shopapi",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := sqlx.Connect("pgx", cfg.DatabaseDSN)
	if err != nil {
		return errors.Wrap(err, "connect database")
	}
	defer db.Close()

	cartSvc := cartapp.NewService(cartpg.NewCartRepo(db))
	orderSvc := orderapp.NewService(orderpg.NewOrderRepo(db))
	checkoutSvc := checkoutapp.NewService(cartSvc, orderSvc)
	catalogSvc := catalogapp.NewService(catalogpg.NewProductRepo(db))

	importSvc, err := importer.NewService(cfg.ImportDir)
	if err != nil {
		return err
	}

	api := httpapi.NewApp(cartSvc, checkoutSvc, catalogSvc, importSvc,
		httpapi.Credentials{Username: cfg.AuthUser, Password: cfg.AuthPassword}, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
	return nil
}

func runMigrations() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseDSN)
	if err != nil {
		return errors.Wrap(err, "connect database")
	}
	defer db.Close()

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "open migration source")
	}

	driver, err := pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}
