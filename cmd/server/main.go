package main

import (
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/Rakshi2609/Dr-Help-2/internal/alerts"
	"github.com/Rakshi2609/Dr-Help-2/internal/auth"
	"github.com/Rakshi2609/Dr-Help-2/internal/cache"
	"github.com/Rakshi2609/Dr-Help-2/internal/config"
	"github.com/Rakshi2609/Dr-Help-2/internal/database"
	"github.com/Rakshi2609/Dr-Help-2/internal/handlers"
	"github.com/Rakshi2609/Dr-Help-2/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	recordStore := store.New(database.DB)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	profiles := cache.NewProfileCache(cfg.RedisURL, 24*time.Hour)
	defer profiles.Close()

	// five attempts per email, refilling one every 30 seconds
	limiter := auth.NewLoginLimiter(rate.Every(30*time.Second), 5)

	consumer, err := alerts.Connect(cfg.NatsURL, recordStore)
	if err != nil {
		log.Printf("alert ingest disabled: %v", err)
	}
	defer consumer.Close()

	h := handlers.New(recordStore, tokens, profiles, limiter)
	router := handlers.NewRouter(h)

	log.Printf("server running on :%s", cfg.ListenPort)
	if err := router.Run(":" + cfg.ListenPort); err != nil {
		log.Fatal("server stopped:", err)
	}
}
