package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/todohub/internal/config"
	"github.com/geocoder89/todohub/internal/db"
	"github.com/geocoder89/todohub/internal/observability"
	"github.com/geocoder89/todohub/internal/repo/postgres"
	"github.com/geocoder89/todohub/internal/service"
)

// migrate applies or rolls back the schema outside of the api process and
// can seed the bootstrap accounts.
func main() {
	down := flag.Bool("down", false, "roll back the last migration instead of applying pending ones")
	seed := flag.Bool("seed", false, "seed bootstrap users after migrating")
	flag.Parse()

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env).With("cmd", "migrate")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if *down {
		if err := db.Rollback(cfg.DBURL); err != nil {
			log.Error("rollback failed", "err", err)
			os.Exit(1)
		}
		log.Info("rolled back one migration")
		return
	}

	if err := db.Migrate(cfg.DBURL); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if !*seed {
		return
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// seeding is opt-in through the flag here, regardless of SEED_DATA
	cfg.SeedData = true
	users := service.NewUserService(postgres.NewUsersRepo(pool, nil))
	if err := db.SeedUsers(ctx, users, cfg); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}
	log.Info("seed complete")
}
