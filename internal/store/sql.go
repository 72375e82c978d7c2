package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rootasjey/pokestats/schemas"
)

var _ Store = (*SQLStore)(nil)

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name            string
	upsert          string
	insertIgnore    string
	selectForUpdate string
}

var (
	MySQL = Dialect{
		Name: "mysql",
		upsert: `INSERT INTO cache_documents (namespace, doc_key, body)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE body = VALUES(body)`,
		insertIgnore:    `INSERT IGNORE INTO cache_documents (namespace, doc_key, body) VALUES (?, ?, ?)`,
		selectForUpdate: `SELECT body FROM cache_documents WHERE namespace = ? AND doc_key = ? FOR UPDATE`,
	}

	SQLite = Dialect{
		Name: "sqlite",
		upsert: `INSERT INTO cache_documents (namespace, doc_key, body)
			VALUES (?, ?, ?)
			ON CONFLICT(namespace, doc_key) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		insertIgnore: `INSERT INTO cache_documents (namespace, doc_key, body)
			VALUES (?, ?, ?)
			ON CONFLICT(namespace, doc_key) DO NOTHING`,
		selectForUpdate: `SELECT body FROM cache_documents WHERE namespace = ? AND doc_key = ?`,
	}
)

// SQLStore keeps every namespace in the cache_documents table.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
}

func NewSQLStore(db *sqlx.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// Migrate applies the embedded migrations of the dialect. Every statement
// is idempotent.
func (s *SQLStore) Migrate(ctx context.Context) error {
	statements, err := schemas.Statements(s.dialect.Name)
	if err != nil {
		return fmt.Errorf("schemas.Statements() > %w", err)
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("db.ExecContext(migration) > %w", err)
		}
	}
	return nil
}

type documentRow struct {
	Key  string `db:"doc_key"`
	Body string `db:"body"`
}

func (s *SQLStore) Has(ctx context.Context, ns Namespace, key string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM cache_documents WHERE namespace = ? AND doc_key = ?", string(ns), key); err != nil {
		return false, fmt.Errorf("db.GetContext(count %s/%s) > %w", ns, key, err)
	}
	return count > 0, nil
}

func (s *SQLStore) Get(ctx context.Context, ns Namespace, key string) (json.RawMessage, bool, error) {
	var body string
	err := s.db.GetContext(ctx, &body,
		"SELECT body FROM cache_documents WHERE namespace = ? AND doc_key = ?", string(ns), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("db.GetContext(%s/%s) > %w", ns, key, err)
	}
	return decodeBody(ns, key, body)
}

func (s *SQLStore) GetNamespace(ctx context.Context, ns Namespace) (map[string]json.RawMessage, error) {
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT doc_key, body FROM cache_documents WHERE namespace = ? ORDER BY doc_key", string(ns)); err != nil {
		return nil, fmt.Errorf("db.SelectContext(%s) > %w", ns, err)
	}
	result := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		doc, _, err := decodeBody(ns, row.Key, row.Body)
		if err != nil {
			return nil, err
		}
		result[row.Key] = doc
	}
	return result, nil
}

func (s *SQLStore) Put(ctx context.Context, ns Namespace, key string, doc json.RawMessage) error {
	if err := validDoc(ns, key, doc); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, string(ns), key, string(doc)); err != nil {
		return fmt.Errorf("db.ExecContext(upsert %s/%s) > %w", ns, key, err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, ns Namespace, key string, fn UpdateFunc) (json.RawMessage, error) {
	var result json.RawMessage
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var body string
		var current json.RawMessage
		exists := true
		err := tx.GetContext(ctx, &body, s.dialect.selectForUpdate, string(ns), key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			exists = false
		case err != nil:
			return fmt.Errorf("tx.GetContext(%s/%s) > %w", ns, key, err)
		default:
			current, _, err = decodeBody(ns, key, body)
			if err != nil {
				return err
			}
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}
		if err := validDoc(ns, key, next); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.dialect.upsert, string(ns), key, string(next)); err != nil {
			return fmt.Errorf("tx.ExecContext(upsert %s/%s) > %w", ns, key, err)
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLStore) Write(ctx context.Context, entries ...Entry) error {
	for _, entry := range entries {
		if err := validDoc(entry.Namespace, entry.Key, entry.Doc); err != nil {
			return err
		}
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, entry := range entries {
			query := s.dialect.upsert
			if entry.IfAbsent {
				query = s.dialect.insertIgnore
			}
			if _, err := tx.ExecContext(ctx, query, string(entry.Namespace), entry.Key, string(entry.Doc)); err != nil {
				return fmt.Errorf("tx.ExecContext(%s/%s) > %w", entry.Namespace, entry.Key, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) Reset(ctx context.Context, ns Namespace) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cache_documents WHERE namespace = ?", string(ns)); err != nil {
		return fmt.Errorf("db.ExecContext(delete %s) > %w", ns, err)
	}
	return nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx > %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit > %w", err)
	}
	return nil
}

func decodeBody(ns Namespace, key, body string) (json.RawMessage, bool, error) {
	doc := json.RawMessage(body)
	if !json.Valid(doc) {
		return nil, false, &CorruptError{Namespace: ns, Key: key, Err: errors.New("body is not valid JSON")}
	}
	return doc, true, nil
}
