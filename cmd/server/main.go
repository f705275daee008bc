package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripsplit/internal/api"
	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/exchange"
	"github.com/mmynk/tripsplit/internal/ocr"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/logging"
)

func main() {
	// Missing .env is fine; config falls back to the process environment.
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	ocrClient := ocr.New(cfg.OCRServiceURL, cfg.OCRServiceToken)
	if !ocrClient.Configured() {
		slog.Warn("OCR service not configured, /ocr/parse disabled")
	}

	server := &api.Server{
		Auth:           service.NewAuthService(authenticator, jwtManager),
		Trips:          service.NewTripService(store),
		Receipts:       service.NewReceiptService(store),
		Settlements:    service.NewSettlementService(store),
		Exchange:       exchange.New(store, cfg.ExchangeAPIURL),
		OCR:            ocrClient,
		JWT:            jwtManager,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	// h2c lets HTTP/2 clients connect without TLS; a reverse proxy
	// terminates TLS in front of this process.
	handler := h2c.NewHandler(api.NewRouter(server), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
