package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/user/broadcast-bot/internal/bot"
	"github.com/user/broadcast-bot/internal/commands"
	"github.com/user/broadcast-bot/internal/config"
	"github.com/user/broadcast-bot/internal/db"
	"github.com/user/broadcast-bot/internal/pidlock"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lock, err := pidlock.Acquire(cfg.PIDFile)
	if err != nil {
		log.Fatalf("Failed to acquire pid lock: %v", err)
	}
	defer lock.Release()

	dbManager, err := db.NewManagerWithURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := dbManager.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Assert that our db.Manager implements the commands.Store interface
	var _ commands.Store = dbManager

	b, err := bot.New(cfg, dbManager)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	go func() {
		log.Println("Starting bot...")
		if err := b.Start(); err != nil {
			log.Fatalf("Error starting bot: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down bot...")
	b.Stop()
	log.Println("Bot stopped")
}
