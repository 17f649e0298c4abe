// Package badger is the embedded key-value backend. Every record is a JSON
// document under a prefixed key.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	badgerdb "github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// key prefixes
const (
	userPrefix  = "u/"
	emailPrefix = "ue/"
	txnPrefix   = "t/"
	goalPrefix  = "g/"
)

// userDoc keeps the password hash, which domain.UserRecord never serialises.
type userDoc struct {
	domain.User
	PasswordHash string `json:"senhaHash"`
}

func (d userDoc) record() *domain.UserRecord {
	return &domain.UserRecord{User: d.User, PasswordHash: d.PasswordHash}
}

// Store implements port.Store on a badger database.
type Store struct {
	db  *badgerdb.DB
	now func() time.Time
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Store, error) {
	return open(badgerdb.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemory opens a database that lives only in memory.
func OpenInMemory() (*Store, error) {
	return open(badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badgerdb.Options) (*Store, error) {
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return &domain.ErrExternalService{Service: "badger", Err: errors.New("database closed")}
	}
	return nil
}

func storeErr(op string, err error) error {
	return &domain.ErrExternalService{Service: "badger/" + op, Err: err}
}

func txnKey(owner string, kind domain.TransactionKind, id string) []byte {
	return []byte(txnPrefix + owner + "/" + string(kind) + "/" + id)
}

func txnKindPrefix(owner string, kind domain.TransactionKind) []byte {
	return []byte(txnPrefix + owner + "/" + string(kind) + "/")
}

func putJSON(txn *badgerdb.Txn, key []byte, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, b)
}

func getJSON(txn *badgerdb.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// --- Transactions ---

func (s *Store) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	tx.ID = uuid.NewString()
	tx.CreatedAt = s.now()

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return putJSON(txn, txnKey(tx.Owner, tx.Kind, tx.ID), tx)
	})
	if err != nil {
		return storeErr("transactions", err)
	}
	return nil
}

func (s *Store) ListTransactions(_ context.Context, owner string, kind domain.TransactionKind) ([]domain.Transaction, error) {
	prefix := txnKindPrefix(owner, kind)
	out := make([]domain.Transaction, 0)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var tx domain.Transaction
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, tx)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("transactions", err)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// --- Goals ---

func (s *Store) GetGoal(_ context.Context, owner string) (*domain.Goal, error) {
	var g domain.Goal
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		err := getJSON(txn, []byte(goalPrefix+owner), &g)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			g = domain.Goal{Owner: owner, Amount: decimal.Zero, UpdatedAt: s.now()}
			return putJSON(txn, []byte(goalPrefix+owner), g)
		}
		return err
	})
	if err != nil {
		return nil, storeErr("goals", err)
	}
	return &g, nil
}

func (s *Store) SetGoal(_ context.Context, owner string, amount decimal.Decimal) (*domain.Goal, error) {
	g := domain.Goal{Owner: owner, Amount: amount, UpdatedAt: s.now()}
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return putJSON(txn, []byte(goalPrefix+owner), g)
	})
	if err != nil {
		return nil, storeErr("goals", err)
	}
	return &g, nil
}

// --- Users ---

func (s *Store) CreateUser(_ context.Context, u *domain.UserRecord) error {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = s.now()

	var conflict bool
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		emailKey := []byte(emailPrefix + u.Email)
		if _, err := txn.Get(emailKey); err == nil {
			conflict = true
			return nil
		} else if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey, []byte(u.ID)); err != nil {
			return err
		}
		return putJSON(txn, []byte(userPrefix+u.ID), userDoc{User: u.User, PasswordHash: u.PasswordHash})
	})
	if err != nil {
		return storeErr("users", err)
	}
	if conflict {
		return &domain.ErrConflict{Message: "E-mail já cadastrado"}
	}
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.UserRecord, error) {
	var (
		doc   userDoc
		found bool
	)
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(emailPrefix + strings.ToLower(email)))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := getJSON(txn, []byte(userPrefix+string(id)), &doc); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, storeErr("users", err)
	}
	if !found {
		return nil, nil
	}
	return doc.record(), nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.UserRecord, error) {
	var doc userDoc
	err := s.db.View(func(txn *badgerdb.Txn) error {
		return getJSON(txn, []byte(userPrefix+id), &doc)
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, storeErr("users", err)
	}
	return doc.record(), nil
}

func (s *Store) UpdateUser(_ context.Context, id string, upd domain.UserUpdate) (*domain.UserRecord, error) {
	var doc userDoc
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		if err := getJSON(txn, []byte(userPrefix+id), &doc); err != nil {
			return err
		}
		rec := doc.record()
		domain.ApplyUserUpdate(rec, upd)
		doc = userDoc{User: rec.User, PasswordHash: rec.PasswordHash}
		return putJSON(txn, []byte(userPrefix+id), doc)
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, storeErr("users", err)
	}
	return doc.record(), nil
}
