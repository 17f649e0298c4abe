package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

const profileCache = "profile"

func profileKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// ============================================================
// Profile — GET /v1/auth/profile
// ============================================================

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Profile")
	defer span.End()

	if u, ok := s.cache.Get(profileKey(userID)); ok {
		s.metrics.IncrCacheHit(profileCache)
		return u, nil
	}
	s.metrics.IncrCacheMiss(profileCache)

	rec, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := rec.User
	s.cache.Set(profileKey(userID), &u)
	return &u, nil
}

// ============================================================
// UpdateProfile — PUT /v1/auth/profile
// ============================================================

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *domain.ProfileUpdateRequest) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()

	upd := domain.UserUpdate{
		Telefone:      req.Telefone,
		FotoPerfil:    req.FotoPerfil,
		Identificacao: req.Identificacao,
	}
	if req.Nome != nil {
		nome := strings.TrimSpace(*req.Nome)
		if nome == "" {
			return nil, &domain.ErrValidation{Field: "nome", Message: "Nome não pode ficar vazio"}
		}
		upd.Nome = &nome
	}
	if req.Senha != nil && *req.Senha != "" {
		if err := validatePassword(*req.Senha); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Senha), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		upd.PasswordHash = &h
	}

	if upd == (domain.UserUpdate{}) {
		return nil, &domain.ErrValidation{Field: "body", Message: "Nenhum campo para atualizar"}
	}

	rec, err := s.users.UpdateUser(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.cache.Delete(profileKey(userID))
	return &rec.User, nil
}
