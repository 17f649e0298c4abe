package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/cache"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/memory"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"go.uber.org/zap"
)

const testSecret = "test-secret-with-enough-bytes-0123456789"

func newAuth(t *testing.T) (*service.AuthService, *observability.Metrics) {
	t.Helper()
	c := cache.New[*domain.User](time.Minute)
	t.Cleanup(c.Close)
	metrics := observability.NewMetrics()
	return service.NewAuthService(memory.New(), c, metrics, testSecret, time.Hour, zap.NewNop()), metrics
}

func register(t *testing.T, svc *service.AuthService) *domain.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Nome:  "Maria Feirante",
		Email: "  Maria@Exemplo.com ",
		Senha: "segredo1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return resp
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuth(t)
	resp := register(t, svc)

	if resp.User.ID == "" || resp.Token == "" {
		t.Fatalf("expected id and token, got %+v", resp)
	}
	if resp.User.Email != "maria@exemplo.com" {
		t.Errorf("email = %q, want normalized", resp.User.Email)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", resp.ExpiresIn)
	}

	claims, err := svc.ValidateAccessToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Sub != resp.User.ID {
		t.Errorf("sub = %q, want %q", claims.Sub, resp.User.ID)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(context.Background(), &domain.RegisterRequest{
			Nome: "Outra", Email: "maria@exemplo.com", Senha: "segredo2",
		})
		var target *domain.ErrConflict
		if !errors.As(err, &target) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		cases := map[string]domain.RegisterRequest{
			"missing name":   {Email: "a@b.com", Senha: "segredo1"},
			"invalid email":  {Nome: "A", Email: "not-an-email", Senha: "segredo1"},
			"short password": {Nome: "A", Email: "a@b.com", Senha: "123"},
		}
		for name, req := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.Register(context.Background(), &req)
				var target *domain.ErrValidation
				if !errors.As(err, &target) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
			})
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuth(t)
	reg := register(t, svc)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "MARIA@exemplo.com", Senha: "segredo1"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if resp.User.ID != reg.User.ID {
			t.Errorf("user = %q, want %q", resp.User.ID, reg.User.ID)
		}
	})

	cases := map[string]domain.LoginRequest{
		"wrong password": {Email: "maria@exemplo.com", Senha: "errada1"},
		"unknown user":   {Email: "ninguem@exemplo.com", Senha: "segredo1"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &req)
			var target *domain.ErrUnauthorized
			if !errors.As(err, &target) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}

	t.Run("empty body", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &domain.LoginRequest{})
		var target *domain.ErrValidation
		if !errors.As(err, &target) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc, _ := newAuth(t)
	other := service.NewAuthService(memory.New(), cache.New[*domain.User](time.Minute), observability.NewMetrics(), "another-secret-0123456789abcdef", time.Hour, zap.NewNop())
	resp := register(t, other)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"wrong secret": resp.Token,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(token)
			var target *domain.ErrUnauthorized
			if !errors.As(err, &target) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc, metrics := newAuth(t)
	reg := register(t, svc)
	ctx := context.Background()

	if _, err := svc.Profile(ctx, reg.User.ID); err != nil {
		t.Fatalf("profile: %v", err)
	}
	u, err := svc.Profile(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if u.Nome != "Maria Feirante" {
		t.Errorf("nome = %q", u.Nome)
	}
	if rate := metrics.Snapshot().CacheHitRate; rate != 0.5 {
		t.Errorf("cache hit rate = %v, want 0.5", rate)
	}

	t.Run("update invalidates cache", func(t *testing.T) {
		nome := "Maria da Feira"
		if _, err := svc.UpdateProfile(ctx, reg.User.ID, &domain.ProfileUpdateRequest{Nome: &nome}); err != nil {
			t.Fatalf("update: %v", err)
		}
		u, err := svc.Profile(ctx, reg.User.ID)
		if err != nil {
			t.Fatalf("profile: %v", err)
		}
		if u.Nome != nome {
			t.Errorf("nome = %q, want %q", u.Nome, nome)
		}
	})

	t.Run("password change", func(t *testing.T) {
		senha := "novasenha"
		if _, err := svc.UpdateProfile(ctx, reg.User.ID, &domain.ProfileUpdateRequest{Senha: &senha}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := svc.Login(ctx, &domain.LoginRequest{Email: "maria@exemplo.com", Senha: senha}); err != nil {
			t.Fatalf("login with new password: %v", err)
		}
	})

	t.Run("empty update", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, reg.User.ID, &domain.ProfileUpdateRequest{})
		var target *domain.ErrValidation
		if !errors.As(err, &target) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Profile(ctx, "missing")
		var target *domain.ErrNotFound
		if !errors.As(err, &target) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
