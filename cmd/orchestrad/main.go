package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/rdelaney/orchestra/internal/api"
	"github.com/rdelaney/orchestra/internal/config"
	"github.com/rdelaney/orchestra/internal/store"
)

func main() {
	_ = godotenv.Load()

	settings := config.LoadSettings()
	logger := config.NewLogger(os.Stdout, settings.LogLevel)

	logger.Info("orchestrad: starting",
		"listen_addr", settings.ListenAddr,
		"db_path", settings.DBPath,
	)

	db, err := store.NewSQLiteStore(settings.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := api.NewServer(settings.ListenAddr, db, logger)

	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
