package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citadelle-cards-api/internal/cache"
	"citadelle-cards-api/internal/catalog"
	"citadelle-cards-api/internal/config"
	"citadelle-cards-api/internal/cooldown"
	"citadelle-cards-api/internal/draw"
	"citadelle-cards-api/internal/exchange"
	"citadelle-cards-api/internal/handler"
	"citadelle-cards-api/internal/ledger"
	"citadelle-cards-api/internal/middleware"
	"citadelle-cards-api/internal/router"
	"citadelle-cards-api/internal/service"
	"citadelle-cards-api/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Citadelle Cards API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.App.Timezone, err)
	}

	ctx := context.Background()

	// Initialize tabular store based on config
	var tabStore store.TabularStore
	switch cfg.Store.Type {
	case "sheets":
		sheetsStore, err := store.NewSheetsTabularStore(ctx, cfg.Store.SpreadsheetID, cfg.Store.ServiceAccountJSON)
		if err != nil {
			log.Fatalf("Failed to initialize Google Sheets store: %v", err)
		}
		tabStore = sheetsStore
		log.Println("Google Sheets tabular store initialized")
	case "mysql":
		mysqlStore, err := store.NewMySQLTabularStore(cfg.Store.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL store: %v", err)
		}
		tabStore = mysqlStore
		log.Println("MySQL tabular store initialized")
	case "memory":
		tabStore = store.NewMemoryTabularStore()
		log.Println("In-memory tabular store initialized (volatile!)")
	default: // sqlite
		sqliteStore, err := store.NewSQLiteTabularStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
		tabStore = sqliteStore
		log.Println("SQLite tabular store initialized")
	}
	defer tabStore.Close()

	// Initialize file store based on config
	var fileStore store.FileStore
	switch cfg.Files.Type {
	case "drive":
		driveStore, err := store.NewDriveFileStore(ctx, cfg.Store.ServiceAccountJSON)
		if err != nil {
			log.Fatalf("Failed to initialize Google Drive file store: %v", err)
		}
		fileStore = driveStore
		log.Println("Google Drive file store initialized")
	default: // local
		localStore, err := store.NewLocalFileStore(cfg.Files.LocalRoot)
		if err != nil {
			log.Fatalf("Failed to initialize local file store: %v", err)
		}
		fileStore = localStore
		log.Println("Local file store initialized")
	}

	// Initialize cache (sessions, OAuth states, image bytes)
	var appCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
			appCache = cache.NewMemoryCache()
		} else {
			appCache = redisCache
			log.Println("Redis cache initialized")
		}
	} else {
		appCache = cache.NewMemoryCache()
		log.Println("Memory cache initialized")
	}
	defer appCache.Close()

	// Build the card catalog
	cardCatalog := catalog.New(fileStore, cfg.Catalog.Folders())
	if err := cardCatalog.Reload(ctx); err != nil {
		log.Printf("Warning: initial catalog load failed: %v", err)
	}

	// Domain modules
	cardLedger := ledger.New(tabStore, cardCatalog)
	drawEngine := draw.NewEngine(cardCatalog)
	selector := draw.NewSelector(cardLedger, cardCatalog, loc)
	dailyDraw := cooldown.New(tabStore, store.TableDailyDraw, loc)
	sacrificeDraw := cooldown.New(tabStore, store.TableSacrifice, loc)
	board := exchange.New(tabStore, loc)

	// Services
	names := service.NewDirectory()
	sessions := service.NewSessionService(appCache)
	cardService := service.NewCardService(
		cardCatalog, drawEngine, selector, cardLedger,
		dailyDraw, sacrificeDraw, board, names,
	)

	// Handlers
	healthHandler := handler.New(cfg.App.Version)
	cardsHandler := handler.NewCardsHandler(cardService)
	exchangeHandler := handler.NewExchangeHandler(cardService)
	imageHandler := handler.NewImageHandler(fileStore, appCache, cfg.Cache.ImageTTL)
	adminHandler := handler.NewAdminHandler(cardCatalog, cfg.Store.Type)

	var authHandler *handler.AuthHandler
	if cfg.Discord.Configured() {
		authHandler = handler.NewAuthHandler(handler.AuthHandlerConfig{
			ClientID:     cfg.Discord.ClientID,
			ClientSecret: cfg.Discord.ClientSecret,
			RedirectURI:  cfg.Discord.RedirectURI,
			Sessions:     sessions,
			Names:        names,
			States:       appCache,
		})
	} else {
		log.Println("Warning: Discord OAuth is not configured; login is disabled")
	}

	// Create middleware with injected dependencies
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		Sessions: sessions,
	})
	adminMiddleware := middleware.NewAdminMiddleware(cfg.App.LoginKey)

	// Create router
	r := router.New(router.Config{
		Handler:         healthHandler,
		AuthHandler:     authHandler,
		CardsHandler:    cardsHandler,
		ExchangeHandler: exchangeHandler,
		ImageHandler:    imageHandler,
		AdminHandler:    adminHandler,
		AuthMiddleware:  authMiddleware,
		AdminMiddleware: adminMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
