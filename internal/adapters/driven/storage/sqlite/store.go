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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// dbFileName is the database file inside the data directory.
const dbFileName = "docchat.db"

// Store is a SQLite-based storage that provides access to the
// store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultDataDir returns ~/.docchat/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat", "data"), nil
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docchat/data/docchat.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	pending, err := migrations.Up()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.migrate(pending); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ExchangeStore returns an ExchangeStore interface backed by this store.
// Closing it closes the store.
func (s *Store) ExchangeStore() driven.ExchangeStore {
	return &exchangeStore{store: s}
}

// migrate runs all pending migrations. Each migration and its version
// record are applied in one transaction.
func (s *Store) migrate(pending []migrations.Migration) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	for _, m := range pending {
		if m.Version <= currentVersion {
			continue
		}
		if err := s.applyMigration(m.Version, m.SQL); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Exchange Store ====================

// exchangeStore implements driven.ExchangeStore.
type exchangeStore struct {
	store *Store
}

var _ driven.ExchangeStore = (*exchangeStore)(nil)

// Append inserts a new exchange. Existing IDs are rejected with
// domain.ErrAlreadyExists; rows are never updated.
func (s *exchangeStore) Append(ctx context.Context, ex domain.Exchange) error {
	var citation sql.NullInt64
	if ex.PageCitation != nil {
		citation = sql.NullInt64{Int64: int64(*ex.PageCitation), Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO exchanges (id, session_id, user_query, ai_response, page_citation, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ex.ID, ex.SessionID, ex.UserQuery, ex.AIResponse, citation, ex.CreatedAt.UTC().UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("exchange %s: %w", ex.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("inserting exchange: %w", err)
	}
	return nil
}

// ListBySession returns a session's exchanges in creation order.
func (s *exchangeStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, session_id, user_query, ai_response, page_citation, created_at
		FROM exchanges
		WHERE session_id = ?
		ORDER BY created_at, rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []domain.Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, *ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exchanges: %w", err)
	}
	return exchanges, nil
}

// Close closes the underlying store.
func (s *exchangeStore) Close() error {
	return s.store.Close()
}

func scanExchange(rows *sql.Rows) (*domain.Exchange, error) {
	var (
		ex        domain.Exchange
		citation  sql.NullInt64
		createdAt int64
	)
	if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.UserQuery, &ex.AIResponse, &citation, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning exchange: %w", err)
	}
	if citation.Valid {
		page := int(citation.Int64)
		ex.PageCitation = &page
	}
	ex.CreatedAt = time.Unix(0, createdAt).UTC()
	return &ex, nil
}

func isUniqueViolation(err error) bool {
	var target interface{ Code() int }
	if errors.As(err, &target) {
		// SQLITE_CONSTRAINT_PRIMARYKEY and SQLITE_CONSTRAINT_UNIQUE
		if c := target.Code(); c == 1555 || c == 2067 {
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
