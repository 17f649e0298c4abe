package service

import (
	"context"
	"fmt"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================
// Login — POST /v1/auth/login
// ============================================================

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email := normalizeEmail(req.Email)
	if email == "" || req.Senha == "" {
		return nil, &domain.ErrValidation{Field: "body", Message: "E-mail e senha são obrigatórios"}
	}

	rec, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if rec == nil {
		return nil, &domain.ErrUnauthorized{Message: "Credenciais inválidas"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Senha)); err != nil {
		s.logger.Warn("login: wrong password", zap.String("user_id", rec.ID))
		return nil, &domain.ErrUnauthorized{Message: "Credenciais inválidas"}
	}

	token, err := s.signAccessToken(rec.ID, rec.Email)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", rec.ID))

	return &domain.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.accessTTL.Seconds()),
		User:      rec.User,
	}, nil
}
