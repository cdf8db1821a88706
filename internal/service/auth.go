package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/go-calendar/internal/server"
)

// AuthService configures Clerk session verification. Without a secret key
// the API is served unauthenticated.
type AuthService struct {
	enabled bool
}

func NewAuthService(s *server.Server) *AuthService {
	secretKey := s.Config.Auth.SecretKey
	if secretKey == "" {
		s.Logger.Warn().Msg("no auth secret key configured, API routes are public")
		return &AuthService{}
	}

	clerk.SetKey(secretKey)
	return &AuthService{enabled: true}
}

// Enabled reports whether API routes require a bearer token.
func (a *AuthService) Enabled() bool {
	return a != nil && a.enabled
}
