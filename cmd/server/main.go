package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"user_mgmt/internal/api"
	"user_mgmt/internal/app/service"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/repository"
	"user_mgmt/internal/platform/cache"
	"user_mgmt/internal/platform/config"
	"user_mgmt/internal/platform/database"
)

func main() {
	// 1. Load Configuration (fatal if secrets are missing)
	cfg := config.Load()
	log.Println("Configuration loaded.")

	// 2. Token authority
	tokenAuth := security.NewTokenAuth(cfg.JWTSecret)

	// 3. Database + schema
	db := database.Connect(cfg.DatabaseURL)
	defer db.Close()
	log.Println("Database connected.")

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database schema up to date.")

	// 4. Profile cache. Best-effort: an unreachable Redis disables caching
	// but never blocks startup.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("Redis unavailable, profile cache disabled: %v", err)
		cacheClient.Close()
		cacheClient = nil
	}
	defer cacheClient.Close()

	// 5. Repositories & Services
	userRepo := repository.NewPgUserRepository(db)
	authService := service.NewAuthService(userRepo, tokenAuth, cfg.JWTExp, cacheClient)
	userService := service.NewUserService(userRepo, cacheClient)

	// 6. Bootstrap admin. A failure is logged but the listener still
	// starts; this is deliberately softer than the startup checks above.
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userService.EnsureAdminExists(bootstrapCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Error seeding admin: %v", err)
	}
	cancelBootstrap()

	// 7. Router & HTTP Server
	router := api.NewRouter(tokenAuth, authService, userService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
