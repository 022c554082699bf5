package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lexigraph/hangman/internal/advise"
	"github.com/lexigraph/hangman/internal/config"
	"github.com/lexigraph/hangman/internal/httpserver"
	"github.com/lexigraph/hangman/internal/store"
	"github.com/lexigraph/hangman/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	// Remote collaborators stay nil in offline mode; every advisory
	// endpoint then answers from the local fallbacks.
	var client *advise.Client
	if !cfg.Offline && cfg.LLMAPIKey != "" {
		client = advise.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel,
			time.Duration(cfg.LLMTimeoutMS)*time.Millisecond)
	}
	advisor := advise.NewAdvisor(client, time.Duration(cfg.LLMTimeoutMS)*time.Millisecond)

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, db, advisor, nil)
	log.Info().Str("port", cfg.Port).Bool("offline", cfg.Offline).Msg("starting hangman server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
