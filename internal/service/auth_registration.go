package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================
// Register — POST /v1/auth/register
// ============================================================

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	req.Nome = strings.TrimSpace(req.Nome)
	req.Email = normalizeEmail(req.Email)
	req.Telefone = strings.TrimSpace(req.Telefone)

	if req.Nome == "" {
		return nil, &domain.ErrValidation{Field: "nome", Message: "Nome é obrigatório"}
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Senha); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "E-mail já cadastrado"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	rec := &domain.UserRecord{
		User: domain.User{
			Nome:     req.Nome,
			Email:    req.Email,
			Telefone: req.Telefone,
		},
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, rec); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.signAccessToken(rec.ID, rec.Email)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", rec.ID))

	return &domain.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.accessTTL.Seconds()),
		User:      rec.User,
	}, nil
}
