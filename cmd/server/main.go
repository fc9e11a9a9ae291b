package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prompt-polish/internal/config"
	"prompt-polish/internal/handler"
	"prompt-polish/internal/localstore"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Wiring
	container, err := config.NewContainer(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Handlers
	polishHandler := handler.NewPolishHandler(
		container.Enhancer,
		container.PlanRepository,
		demoHistory(container),
		container.Logger,
		container.Config.GetStreamIdleTimeout(),
	)

	subscriptionHandler := handler.NewSubscriptionHandler(
		container.PlanRepository,
		container.Logger,
	)

	billingHandler := handler.NewBillingHandler(
		container.Billing,
		container.Config,
		container.Logger,
	)

	historyHandler := handler.NewHistoryHandler(
		container.History,
		container.Logger,
	)

	authMiddleware := handler.NewAuthMiddleware(
		container.AuthService,
		container.Logger,
	)
	if container.DemoMode {
		authMiddleware = handler.NewDemoAuthMiddleware(
			container.AuthService,
			container.Logger,
		)
	}

	// Router
	router := handler.NewRouter(
		polishHandler,
		subscriptionHandler,
		billingHandler,
		historyHandler,
		authMiddleware.Middleware,
	)

	// start server
	server := &http.Server{
		Addr:    ":" + container.Config.GetServerPort(),
		Handler: router,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr, "demo_mode", container.DemoMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Warn("Forced shutdown", "error", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
}

// demoHistory returns the history store for polish recording only in demo
// mode; with a hosted plan store, clients keep their own history.
func demoHistory(container *config.Container) *localstore.HistoryStore {
	if container.DemoMode {
		return container.History
	}
	return nil
}
