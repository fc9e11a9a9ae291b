package config

import (
	"context"
	"time"

	"prompt-polish/internal/domain"
	"prompt-polish/internal/localstore"
	"prompt-polish/internal/repository"
	"prompt-polish/internal/service"
	"prompt-polish/pkg/logger"

	"github.com/stripe/stripe-go/v79"
)

// demoStreamDelay paces the canned demo stream so it still looks like a
// model is typing.
const demoStreamDelay = 30 * time.Millisecond

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient
	PlanRepository domain.PlanRepository
	AuthService    domain.AuthService
	Enhancer       domain.Enhancer
	Billing        domain.BillingService
	History        *localstore.HistoryStore
	DemoMode       bool
}

// NewContainer creates a new dependency injection container. With a Supabase
// project configured it wires the hosted plan store and real auth; without
// one it falls back to the local file-backed stores and the demo user.
func NewContainer(ctx context.Context) (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	c := &Container{
		Config: config,
		Logger: appLogger,
	}

	if config.GetSupabaseURL() != "" && config.GetSupabaseKey() != "" {
		supabaseClient := repository.NewSupabaseClient(config, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			return nil, err
		}
		c.SupabaseClient = supabaseClient
		c.PlanRepository = repository.NewSupabasePlanRepository(supabaseClient, appLogger)
		c.AuthService = service.NewAuthService(supabaseClient, appLogger)
	} else {
		appLogger.Warn("No Supabase project configured, running in demo mode with local state")
		c.DemoMode = true
		planStore, err := localstore.NewPlanStore(config.GetStatePath(), appLogger)
		if err != nil {
			return nil, err
		}
		c.PlanRepository = planStore
		c.AuthService = service.NewDemoAuthService(appLogger)
	}

	history, err := localstore.NewHistoryStore(config.GetStatePath(), appLogger)
	if err != nil {
		return nil, err
	}
	c.History = history

	enhancer, err := buildEnhancer(ctx, config, appLogger)
	if err != nil {
		return nil, err
	}
	c.Enhancer = enhancer
	appLogger.Info("Enhancer selected", "provider", enhancer.Name())

	stripe.Key = config.GetStripeSecretKey()
	c.Billing = service.NewStripeBilling(c.PlanRepository, appLogger, config.GetStripePriceID(), config.GetAppURL())

	return c, nil
}

// buildEnhancer picks the model provider. An explicit ENHANCER_PROVIDER wins;
// otherwise the first configured provider is used, with the demo enhancer as
// the final fallback so the service always starts.
func buildEnhancer(ctx context.Context, config domain.Config, appLogger domain.Logger) (domain.Enhancer, error) {
	switch config.GetEnhancerProvider() {
	case ProviderGemini:
		return service.NewGeminiEnhancer(ctx, config.GetGoogleProjectID(), config.GetGoogleLocation(), config.GetGeminiModel(), appLogger)
	case ProviderOpenAI:
		return service.NewOpenAIEnhancer(config.GetOpenAIKey(), config.GetOpenAIModel(), appLogger)
	case ProviderDemo:
		return service.NewDemoEnhancer(demoStreamDelay, appLogger), nil
	}

	if config.GetGoogleProjectID() != "" {
		enhancer, err := service.NewGeminiEnhancer(ctx, config.GetGoogleProjectID(), config.GetGoogleLocation(), config.GetGeminiModel(), appLogger)
		if err == nil {
			return enhancer, nil
		}
		appLogger.Warn("Gemini enhancer unavailable, trying next provider", "error", err)
	}
	if config.GetOpenAIKey() != "" {
		return service.NewOpenAIEnhancer(config.GetOpenAIKey(), config.GetOpenAIModel(), appLogger)
	}

	appLogger.Warn("No model provider configured, serving canned demo responses")
	return service.NewDemoEnhancer(demoStreamDelay, appLogger), nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
