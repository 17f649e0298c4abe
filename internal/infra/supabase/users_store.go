package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/google/uuid"
)

// userRow maps the usuarios columns.
type userRow struct {
	ID            string `json:"id"`
	Nome          string `json:"nome"`
	Email         string `json:"email"`
	Telefone      string `json:"telefone"`
	PasswordHash  string `json:"senha_hash"`
	FotoPerfil    string `json:"foto_perfil"`
	Identificacao string `json:"identificacao"`
	CreatedAt     string `json:"criado_em"`
}

func (r userRow) record() *domain.UserRecord {
	return &domain.UserRecord{
		User: domain.User{
			ID:            r.ID,
			Nome:          r.Nome,
			Email:         r.Email,
			Telefone:      r.Telefone,
			FotoPerfil:    r.FotoPerfil,
			Identificacao: r.Identificacao,
			CreatedAt:     parseDate(r.CreatedAt),
		},
		PasswordHash: r.PasswordHash,
	}
}

func (c *Client) CreateUser(ctx context.Context, u *domain.UserRecord) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateUser")
	defer span.End()

	u.ID = uuid.NewString()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()

	row := userRow{
		ID:            u.ID,
		Nome:          u.Nome,
		Email:         u.Email,
		Telefone:      u.Telefone,
		PasswordHash:  u.PasswordHash,
		FotoPerfil:    u.FotoPerfil,
		Identificacao: u.Identificacao,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	err := c.guard.Do(ctx, func() error {
		_, err := c.doPost(ctx, tableUsers, row, "return=minimal")
		var se *statusError
		if errors.As(err, &se) && se.Status == http.StatusConflict {
			return &domain.ErrConflict{Message: "E-mail já cadastrado"}
		}
		return err
	})
	var conflict *domain.ErrConflict
	if errors.As(err, &conflict) {
		return conflict
	}
	if err != nil {
		return storeErr(tableUsers, err)
	}
	return nil
}

func (c *Client) findUser(ctx context.Context, filter string) (*domain.UserRecord, error) {
	var rows []userRow
	err := c.guard.Do(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s?%s&limit=1", tableUsers, filter))
		if err != nil {
			return err
		}
		rows, err = decodeRows[userRow](body)
		return err
	})
	if err != nil {
		return nil, storeErr(tableUsers, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].record(), nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByEmail")
	defer span.End()

	return c.findUser(ctx, "email=eq."+url.QueryEscape(strings.ToLower(email)))
}

func (c *Client) GetUserByID(ctx context.Context, id string) (*domain.UserRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByID")
	defer span.End()

	u, err := c.findUser(ctx, "id=eq."+url.QueryEscape(id))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	return u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (*domain.UserRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateUser")
	defer span.End()

	patch := map[string]any{}
	if upd.Nome != nil {
		patch["nome"] = *upd.Nome
	}
	if upd.Telefone != nil {
		patch["telefone"] = *upd.Telefone
	}
	if upd.FotoPerfil != nil {
		patch["foto_perfil"] = *upd.FotoPerfil
	}
	if upd.Identificacao != nil {
		patch["identificacao"] = *upd.Identificacao
	}
	if upd.PasswordHash != nil {
		patch["senha_hash"] = *upd.PasswordHash
	}
	if len(patch) == 0 {
		return c.GetUserByID(ctx, id)
	}

	var rows []userRow
	err := c.guard.Do(ctx, func() error {
		body, err := c.doPatch(ctx, tableUsers+"?id=eq."+url.QueryEscape(id), patch)
		if err != nil {
			return err
		}
		rows, err = decodeRows[userRow](body)
		return err
	})
	if err != nil {
		return nil, storeErr(tableUsers, err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	return rows[0].record(), nil
}
