// Package main applies the embedded database migrations.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"miner-econ-lab/internal/config"
	"miner-econ-lab/internal/storage/migrations"
	"miner-econ-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", ".", "Directory containing config.yaml")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if cfg.Database.PostgresDSN == "" && cfg.Database.ClickhouseDSN == "" {
		log.Fatal("no database DSNs configured, nothing to migrate")
	}

	if cfg.Database.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("connect postgres")
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			log.WithError(err).Fatal("postgres migrations")
		}
		pool.Close()
		log.Info("postgres migrations applied")
	}

	if cfg.Database.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Database.ClickhouseDSN)
		if err != nil {
			log.WithError(err).Fatal("clickhouse migrations")
		}
		conn.Close()
		log.Info("clickhouse migrations applied")
	}
}
