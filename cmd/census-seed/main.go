package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"census-app-go/internal/config"
	"census-app-go/internal/db"
	referencedomain "census-app-go/internal/domain/reference"
	userdomain "census-app-go/internal/domain/user"
	"census-app-go/internal/repository/inmemory"
	referencerepo "census-app-go/internal/repository/postgres/reference"
	userrepo "census-app-go/internal/repository/postgres/user"
	"census-app-go/internal/seed"
	"census-app-go/pkg/logger"
)

func main() {
	path := flag.String("file", "seeds/seed.yaml", "seed file with zones, sectors and users")
	flag.Parse()

	log := logger.NewFromEnv().With("tool", "census-seed")
	if err := run(*path, log); err != nil {
		log.Critical("seed: failed", "err", err)
		os.Exit(1)
	}
}

func run(path string, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	seeds, err := seed.Parse(file)
	if err != nil {
		return err
	}

	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return err
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(dbConn, log); err != nil {
		return err
	}

	refs := referencedomain.NewService(referencerepo.NewPostgres(dbConn), inmemory.NewSectorCache())
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))

	result, err := seed.Apply(ctx, seeds, refs, users, log)
	if err != nil {
		return err
	}
	log.Info("seed: done", "file", path, "zones_created", result.ZonesCreated,
		"sectors_created", result.SectorsCreated, "users_ensured", result.UsersEnsured)
	return nil
}
