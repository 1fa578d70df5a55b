package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// SessionInfo describes one stored session.
type SessionInfo struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// ============================================================
// SQLite Repository
// ============================================================

// Repository is a key-value store namespaced by session id.
type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the embedded migrations in file name order.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) CreateSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES (?)`, id)
	if err != nil {
		return fmt.Errorf("create session %s: %w", id, err)
	}
	return nil
}

func (r *Repository) SessionExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_at FROM sessions ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SessionInfo{}
	for rows.Next() {
		var s SessionInfo
		if err := rows.Scan(&s.ID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and every value stored under it.
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE session_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Get returns the value under key, reporting false when nothing is stored.
func (r *Repository) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `
        SELECT value FROM kv
        WHERE session_id = ? AND key = ?
    `, sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (r *Repository) Put(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO kv (session_id, key, value, updated_at)
        VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
        ON CONFLICT (session_id, key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at
    `, sessionID, key, value)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", sessionID, key, err)
	}
	return nil
}

// ============================================================
// Session bucket
// ============================================================

// Bucket is the view of one session's values, shaped for the editor.
type Bucket struct {
	repo      *Repository
	sessionID string
}

func (r *Repository) Bucket(sessionID string) *Bucket {
	return &Bucket{repo: r, sessionID: sessionID}
}

func (b *Bucket) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return b.repo.Get(ctx, b.sessionID, key)
}

func (b *Bucket) Put(ctx context.Context, key string, value []byte) error {
	return b.repo.Put(ctx, b.sessionID, key, value)
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// OpenSQLite opens the database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000&_pragma=foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
