package main

import (
	"log/slog"
	"os"

	"splitledger/internal/auth"
	"splitledger/internal/config"
	"splitledger/internal/server"
	"splitledger/internal/service"
	"splitledger/internal/storage/sqlite"
	"splitledger/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DatabasePath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	srv := server.New(
		service.NewAuthService(authenticator, jwtManager),
		service.NewGroupService(store),
		service.NewLedgerService(store),
		jwtManager,
	)

	router := srv.Router(cfg.AllowedOrigins)

	addr := ":" + cfg.Port
	slog.Info("Server starting", "addr", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
