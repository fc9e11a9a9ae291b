package service

import (
	"prompt-polish/internal/domain"
)

// authService implements domain.AuthService on top of Supabase auth.
type authService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.AuthService {
	return &authService{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// ValidateToken validates a Supabase access token and returns the user
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Debug("Token validation failed", "error", err)
		return nil, domain.ErrInvalidToken
	}

	return user, nil
}

// DemoUserID identifies the single local user in demo mode.
const DemoUserID = "demo-user"

// demoAuthService accepts any request and resolves it to the fixed demo
// user. Only wired when no Supabase project is configured.
type demoAuthService struct {
	logger domain.Logger
}

// NewDemoAuthService creates the demo-mode authentication service.
func NewDemoAuthService(logger domain.Logger) domain.AuthService {
	return &demoAuthService{logger: logger}
}

func (s *demoAuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	return &domain.SupabaseUser{
		ID:    DemoUserID,
		Email: "demo@localhost",
	}, nil
}
