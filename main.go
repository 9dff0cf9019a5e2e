package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/JeIIicoe/static-bot/internal/bot"
	"github.com/JeIIicoe/static-bot/internal/common"
	"github.com/JeIIicoe/static-bot/internal/directory"
	"github.com/JeIIicoe/static-bot/internal/fflogs"
	"github.com/JeIIicoe/static-bot/internal/vote"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on the environment")
	}
	viper.AutomaticEnv()

	// Read config
	config := bot.ReadConfig()
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Could not create the data directory")
	}

	// Create FFLogs client.
	// The public API allows 3600 points per hour, stay well under that
	restrictions := []common.Restriction{{Requests: 3000, Duration: time.Hour}}
	fflogsClient := fflogs.NewFflogs(config.FflogsClientId, config.FflogsClientSecret, restrictions)

	// Registered characters
	dir, err := directory.NewDirectory(filepath.Join(config.DataDir, "users.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load the user directory")
	}

	// Vote coordinator
	store := vote.NewStore(config.DataDir)
	coordinator := vote.NewCoordinator(store, vote.DefaultPollID)

	// Create and run bot
	b := bot.NewBot(config, &dir, &fflogsClient, &coordinator)
	if err := b.Run(); err != nil {
		log.Fatal().Err(err).Msg("Could not run discord bot")
	}
}
