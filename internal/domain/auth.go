package domain

import "time"

// ============================================================
// Users
// ============================================================

// User is the public view of an account.
type User struct {
	ID            string    `json:"id"`
	Nome          string    `json:"nome"`
	Email         string    `json:"email"`
	Telefone      string    `json:"telefone"`
	FotoPerfil    string    `json:"fotoPerfil,omitempty"`
	Identificacao string    `json:"identificacao,omitempty"`
	CreatedAt     time.Time `json:"criadoEm"`
}

// UserRecord is a User plus its stored bcrypt hash. Never serialised to clients.
type UserRecord struct {
	User
	PasswordHash string `json:"-"`
}

// UserUpdate carries the optional fields of a profile update.
// Nil fields are left unchanged.
type UserUpdate struct {
	Nome          *string
	Telefone      *string
	FotoPerfil    *string
	Identificacao *string
	PasswordHash  *string
}

// ============================================================
// Auth — Request / Response types
// ============================================================

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Senha    string `json:"senha"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	User      User   `json:"usuario"`
}

// ProfileUpdateRequest is the body for PUT /v1/auth/profile.
type ProfileUpdateRequest struct {
	Nome          *string `json:"nome,omitempty"`
	Telefone      *string `json:"telefone,omitempty"`
	FotoPerfil    *string `json:"fotoPerfil,omitempty"`
	Identificacao *string `json:"identificacao,omitempty"`
	Senha         *string `json:"senha,omitempty"`
}

// ApplyUserUpdate copies the non-nil fields of upd into u.
func ApplyUserUpdate(u *UserRecord, upd UserUpdate) {
	if upd.Nome != nil {
		u.Nome = *upd.Nome
	}
	if upd.Telefone != nil {
		u.Telefone = *upd.Telefone
	}
	if upd.FotoPerfil != nil {
		u.FotoPerfil = *upd.FotoPerfil
	}
	if upd.Identificacao != nil {
		u.Identificacao = *upd.Identificacao
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
}
