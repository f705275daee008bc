package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/exchange"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/ocr"
	"github.com/mmynk/tripsplit/internal/service"
)

// Server bundles the handlers' dependencies.
type Server struct {
	Auth        *service.AuthService
	Trips       *service.TripService
	Receipts    *service.ReceiptService
	Settlements *service.SettlementService
	Exchange    *exchange.Service
	OCR         *ocr.Client
	JWT         *auth.JWTManager

	// AllowedOrigins is the CORS allow-list for browser clients.
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(s *Server) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.JWT))

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.handleCreateTrip)
			r.Get("/", s.handleListTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.handleGetTrip)
				r.Delete("/", s.handleDeleteTrip)

				r.Post("/participants", s.handleAddParticipant)
				r.Get("/participants", s.handleListParticipants)

				r.Post("/receipts", s.handleCreateReceipt)
				r.Get("/receipts", s.handleListReceipts)

				r.Post("/payments", s.handleRecordDirectPayment)
				r.Get("/payments", s.handleListDirectPayments)

				r.Get("/balances", s.handleBalances)
				r.Get("/settlements", s.handleSettlements)
			})
		})

		r.Delete("/participants/{participantID}", s.handleRemoveParticipant)
		r.Delete("/payments/{paymentID}", s.handleDeleteDirectPayment)

		r.Route("/receipts/{receiptID}", func(r chi.Router) {
			r.Get("/", s.handleGetReceipt)
			r.Put("/", s.handleUpdateReceipt)
			r.Delete("/", s.handleDeleteReceipt)
			r.Get("/breakdown", s.handleBreakdown)
		})

		r.Get("/exchange-rate", s.handleGetExchangeRate)
		r.Post("/exchange-rate", s.handleSetExchangeRate)

		r.Post("/ocr/parse", s.handleParseReceipt)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "tripsplit-api",
	})
}
