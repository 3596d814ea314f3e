package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	catalogapp "github.com/webshop-go/shop-backend/internal/catalog/app"
	catalogpg "github.com/webshop-go/shop-backend/internal/catalog/infra/postgres"
	"github.com/webshop-go/shop-backend/internal/importer"
	"github.com/webshop-go/shop-backend/pkg/config"
	"github.com/webshop-go/shop-backend/pkg/logger"
	"github.com/webshop-go/shop-backend/pkg/shutdown"
)

func main() {
	app := &cli.App{
		Name:  "importer",
		Usage: "CSV product import worker",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "watch the upload directory and import product CSVs",
				Action: func(*cli.Context) error { return run() },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		Service: "importer",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := sqlx.Connect("pgx", cfg.DatabaseDSN)
	if err != nil {
		return pkgerrors.Wrap(err, "connect database")
	}
	defer db.Close()

	catalogSvc := catalogapp.NewService(catalogpg.NewProductRepo(db))
	svc, err := importer.NewService(cfg.ImportDir)
	if err != nil {
		return err
	}

	proc := importer.NewProcessor(catalogSvc, importer.NewLogNotifier(log), log, cfg.ImportBatchSize)
	watcher := importer.NewWatcher(svc, proc, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return proc.Run(ctx) })
	g.Go(func() error { return watcher.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("bye")
	return nil
}
