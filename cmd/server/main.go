package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordchain/internal/config"
	"wordchain/internal/database"
	"wordchain/internal/dictionary"
	"wordchain/internal/game"
	"wordchain/internal/handlers"
	"wordchain/internal/repository"
	"wordchain/internal/security"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load fallback word lists
	fallback, err := dictionary.LoadFallbackSets(map[string]string{
		"en": cfg.WordsENPath,
		"vi": cfg.WordsVIPath,
	})
	if err != nil {
		log.Fatalf("Failed to load word lists: %v", err)
	}

	// Build the word-validity pipeline
	var client *dictionary.Client
	if cfg.UseDictionaryAPI {
		client = dictionary.NewClient(cfg.DictionaryAPIURL, cfg.APITimeout, []string{"en"})
		log.Printf("Remote dictionary lookups enabled (%s)", cfg.DictionaryAPIURL)
	}
	dictService := dictionary.NewService(dictionary.NewCache(cfg.CacheSize), fallback, client)

	// Initialize persistence and the game engine
	store := repository.NewStore(db)
	validator := game.NewValidator(dictService, game.Rules{
		MinWordLengthEN:       cfg.MinWordLengthEN,
		LongWordThreshold:     cfg.LongWordThreshold,
		AdvancedWordThreshold: cfg.AdvancedWordThreshold,
	})
	scheduler := game.NewTurnScheduler()
	controller := game.NewController(store, validator, scheduler, fallback, game.Config{
		TurnTimeout: cfg.TurnTimeout,
		Points: game.Points{
			Correct:      cfg.PointsCorrect,
			LongWord:     cfg.PointsLongWord,
			AdvancedWord: cfg.PointsAdvancedWord,
			Wrong:        cfg.PointsWrong,
			Timeout:      cfg.PointsTimeout,
			FastReply:    cfg.PointsFastReply,
			MediumReply:  cfg.PointsMediumReply,
			SlowReply:    cfg.PointsSlowReply,
		},
		HintCost: cfg.HintCost,
		PassCost: cfg.PassCost,
	})
	defer controller.Shutdown()

	// Initialize handlers
	if cfg.AdminTokenSecret == "" {
		log.Println("Warning: ADMIN_TOKEN_SECRET not set, admin endpoints will reject every token")
	}
	tokens := security.NewTokenIssuer(cfg.AdminTokenSecret, 24*time.Hour)
	limiter := security.NewRateLimiter(60, time.Minute)
	middleware := handlers.NewMiddleware(limiter, tokens)
	gameHandler := handlers.NewGameHandler(controller, cfg.DefaultLanguage)
	scoreHandler := handlers.NewScoreHandler(store.ScoreRepo(), store.HistoryRepo(), dictService)
	adminHandler := handlers.NewAdminHandler(store.ScoreRepo())

	// Setup routes
	mux := http.NewServeMux()

	// Game lifecycle
	mux.HandleFunc("POST /api/channels/{channelID}/game", middleware.RateLimit(gameHandler.CreateGame))
	mux.HandleFunc("GET /api/channels/{channelID}/game", gameHandler.Status)
	mux.HandleFunc("DELETE /api/channels/{channelID}/game", middleware.RateLimit(gameHandler.StopGame))
	mux.HandleFunc("POST /api/channels/{channelID}/words", middleware.RateLimit(gameHandler.SubmitWord))
	mux.HandleFunc("POST /api/channels/{channelID}/timer", middleware.RateLimit(gameHandler.ArmTimer))
	mux.HandleFunc("POST /api/channels/{channelID}/pass", middleware.RateLimit(gameHandler.PassTurn))
	mux.HandleFunc("POST /api/channels/{channelID}/hint", middleware.RateLimit(gameHandler.BuyHint))

	// Scores and history
	mux.HandleFunc("GET /api/communities/{communityID}/leaderboard", scoreHandler.Leaderboard)
	mux.HandleFunc("GET /api/communities/{communityID}/players/{playerID}", scoreHandler.PlayerStats)
	mux.HandleFunc("GET /api/communities/{communityID}/history", scoreHandler.History)
	mux.HandleFunc("GET /api/stats/dictionary", scoreHandler.CacheStats)

	// Admin routes
	mux.HandleFunc("POST /api/admin/points", middleware.RequireAdmin(adminHandler.AddPoints))
	mux.HandleFunc("DELETE /api/admin/communities/{communityID}/scores", middleware.RequireAdmin(adminHandler.ResetCommunity))
	mux.HandleFunc("DELETE /api/admin/communities/{communityID}/players/{playerID}", middleware.RequireAdmin(adminHandler.ResetPlayer))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
