package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jpateteg/ttbot/internal/config"
	"github.com/jpateteg/ttbot/internal/service"
	"github.com/jpateteg/ttbot/internal/storage"
	"github.com/jpateteg/ttbot/internal/telegram"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx := context.Background()

	var store storage.HistoryStore
	if cfg.PostgresDSN != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("failed to prepare postgres schema")
		}
		log.Info("✅ Connected to Postgres")
		store = pg
	} else {
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			log.WithError(err).Fatal("failed to open data directory")
		}
		log.WithField("dir", cfg.DataDir).Info("using file-based history store")
		store = fs
	}

	svc := service.New(store, log)

	bot, err := telegram.NewBot(cfg, svc, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start telegram bot")
	}
	bot.Start()
}
