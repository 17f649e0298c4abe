// Package sqlite is the embedded relational backend (modernc.org/sqlite,
// schema managed by golang-migrate).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("sqlite")

// timeLayout is fixed width so that TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements port.Store on a single SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the parent directory, migrates the schema and opens the database.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)"
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func storeErr(op string, err error) error {
	return &domain.ErrExternalService{Service: "sqlite/" + op, Err: err}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// --- Transactions ---

func (s *Store) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "SQLite.CreateTransaction")
	defer span.End()

	tx.ID = uuid.NewString()
	tx.CreatedAt = s.now()

	var date sql.NullString
	if !tx.Date.IsZero() {
		date = sql.NullString{String: formatTime(tx.Date), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transacoes (id, usuario_id, tipo, valor, data, descricao, categoria, criado_em)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Owner, string(tx.Kind), tx.Amount.String(), date,
		tx.Description, tx.Category, formatTime(tx.CreatedAt),
	)
	if err != nil {
		return storeErr("transactions", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, owner string, kind domain.TransactionKind) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "SQLite.ListTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("owner", owner), attribute.String("kind", string(kind)))

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, usuario_id, tipo, valor, data, descricao, categoria, criado_em
		 FROM transacoes WHERE usuario_id = ? AND tipo = ?
		 ORDER BY data DESC`,
		owner, string(kind),
	)
	if err != nil {
		return nil, storeErr("transactions", err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			tx              domain.Transaction
			kindStr, amount string
			createdAt       string
			date            sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.Owner, &kindStr, &amount, &date, &tx.Description, &tx.Category, &createdAt); err != nil {
			return nil, storeErr("transactions", err)
		}
		tx.Kind = domain.TransactionKind(kindStr)
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, storeErr("transactions", fmt.Errorf("decode valor %q: %w", amount, err))
		}
		if date.Valid {
			// an unparseable date is kept as zero and later excluded
			tx.Date, _ = parseTime(date.String)
		}
		tx.CreatedAt, _ = parseTime(createdAt)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("transactions", err)
	}
	return out, nil
}

// --- Goals ---

func (s *Store) GetGoal(ctx context.Context, owner string) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "SQLite.GetGoal")
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO configuracoes (usuario_id, meta_faturamento, atualizado_em)
		 VALUES (?, '0', ?) ON CONFLICT(usuario_id) DO NOTHING`,
		owner, formatTime(s.now()),
	)
	if err != nil {
		return nil, storeErr("goals", err)
	}
	return s.readGoal(ctx, owner)
}

func (s *Store) SetGoal(ctx context.Context, owner string, amount decimal.Decimal) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "SQLite.SetGoal")
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO configuracoes (usuario_id, meta_faturamento, atualizado_em)
		 VALUES (?, ?, ?)
		 ON CONFLICT(usuario_id) DO UPDATE SET
		   meta_faturamento = excluded.meta_faturamento,
		   atualizado_em = excluded.atualizado_em`,
		owner, amount.String(), formatTime(s.now()),
	)
	if err != nil {
		return nil, storeErr("goals", err)
	}
	return s.readGoal(ctx, owner)
}

func (s *Store) readGoal(ctx context.Context, owner string) (*domain.Goal, error) {
	var amount, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT meta_faturamento, atualizado_em FROM configuracoes WHERE usuario_id = ?`, owner,
	).Scan(&amount, &updatedAt)
	if err != nil {
		return nil, storeErr("goals", err)
	}

	g := &domain.Goal{Owner: owner}
	if g.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, storeErr("goals", fmt.Errorf("decode meta %q: %w", amount, err))
	}
	g.UpdatedAt, _ = parseTime(updatedAt)
	return g, nil
}

// --- Users ---

const userColumns = `id, nome, email, telefone, senha_hash, foto_perfil, identificacao, criado_em`

func (s *Store) CreateUser(ctx context.Context, u *domain.UserRecord) error {
	ctx, span := tracer.Start(ctx, "SQLite.CreateUser")
	defer span.End()

	u.ID = uuid.NewString()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = s.now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usuarios (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Nome, u.Email, u.Telefone, u.PasswordHash, u.FotoPerfil, u.Identificacao, formatTime(u.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return &domain.ErrConflict{Message: "E-mail já cadastrado"}
		}
		return storeErr("users", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	ctx, span := tracer.Start(ctx, "SQLite.GetUserByEmail")
	defer span.End()

	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE email = ?`, strings.ToLower(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("users", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.UserRecord, error) {
	ctx, span := tracer.Start(ctx, "SQLite.GetUserByID")
	defer span.End()

	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, storeErr("users", err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (*domain.UserRecord, error) {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	domain.ApplyUserUpdate(u, upd)

	_, err = s.db.ExecContext(ctx,
		`UPDATE usuarios SET nome = ?, telefone = ?, senha_hash = ?, foto_perfil = ?, identificacao = ?
		 WHERE id = ?`,
		u.Nome, u.Telefone, u.PasswordHash, u.FotoPerfil, u.Identificacao, id,
	)
	if err != nil {
		return nil, storeErr("users", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*domain.UserRecord, error) {
	var (
		u         domain.UserRecord
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.Telefone, &u.PasswordHash, &u.FotoPerfil, &u.Identificacao, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = parseTime(createdAt)
	return &u, nil
}
