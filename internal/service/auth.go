// Package service holds the use cases. AuthService handles registration, login, JWT access
// tokens and the cached profile of the signed-in user.
package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const (
	bcryptCost     = bcrypt.DefaultCost
	minPasswordLen = 6
	tokenIssuer    = "colhecash-api"
)

// AuthService orchestrates authentication flows.
type AuthService struct {
	users     port.UserStore
	cache     port.Cache[*domain.User]
	metrics   *observability.Metrics
	jwtSecret []byte
	accessTTL time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users port.UserStore, cache port.Cache[*domain.User], metrics *observability.Metrics, jwtSecret string, accessTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		cache:     cache,
		metrics:   metrics,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
		logger:    logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return &domain.ErrValidation{Field: "email", Message: "E-mail é obrigatório"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &domain.ErrValidation{Field: "email", Message: "E-mail inválido"}
	}
	return nil
}

func validatePassword(senha string) error {
	if len([]rune(senha)) < minPasswordLen {
		return &domain.ErrValidation{Field: "senha", Message: "Senha deve ter pelo menos 6 caracteres"}
	}
	return nil
}
