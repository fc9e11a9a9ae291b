package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured. The webhook
// stays outside the auth middleware: Stripe authenticates with its signature,
// not a bearer token.
func NewRouter(
	polishHandler *PolishHandler,
	subscriptionHandler *SubscriptionHandler,
	billingHandler *BillingHandler,
	historyHandler *HistoryHandler,
	authMiddleware func(http.Handler) http.Handler,
) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"prompt-polish"}`))
	}).Methods("GET")

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Webhook route (signature-verified, no bearer auth)
	api.HandleFunc("/webhooks/stripe", billingHandler.StripeWebhook).Methods("POST")

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/polish", polishHandler.Polish).Methods("POST")
	protected.HandleFunc("/user/subscription", subscriptionHandler.GetSubscription).Methods("GET")
	protected.HandleFunc("/create-checkout-session", billingHandler.CreateCheckoutSession).Methods("POST")
	protected.HandleFunc("/history", historyHandler.GetHistory).Methods("GET")
	protected.HandleFunc("/history", historyHandler.ClearHistory).Methods("DELETE")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Next.js dev server
			"http://localhost:5173", // Vite dev server
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"Stripe-Signature",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
