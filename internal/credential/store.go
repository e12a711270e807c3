package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// Scopes. Each scope holds at most one credential; later saves
// overwrite earlier ones wholesale.
const (
	// VIPScope is the single shared scope unlocking higher-quality
	// playback for everyone once any VIP account has logged in.
	VIPScope = "vip"
)

// UserScope returns the per-identity scope key for a user.
func UserScope(identity string) string {
	return "user:" + identity
}

// Store persists one credential per scope in a local SQLite database.
//
// An optional legacy token file (the single loginToken.txt older
// installs wrote) acts as a last-resort fallback when neither the
// requested scope nor the VIP scope has a value.
type Store struct {
	db         *sql.DB
	legacyPath string
}

// Open opens (creating if needed) the credential database at dbPath.
// legacyTokenPath may be empty to disable the legacy fallback.
func Open(dbPath, legacyTokenPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000", // Wait up to 10 seconds on lock
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS credentials (
			scope TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, legacyPath: legacyTokenPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores value under scope, replacing any prior value. The value
// is sanitized so multi-attribute Set-Cookie lines persist as plain
// name=value pairs.
func (s *Store) Save(ctx context.Context, scope, value string) error {
	clean := Sanitize(value)
	if clean == "" {
		return errors.New("refusing to save empty credential")
	}

	query := `
		INSERT INTO credentials (scope, value, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(scope) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, scope, clean); err != nil {
		return fmt.Errorf("failed to save credential for %s: %w", scope, err)
	}
	return nil
}

// Load returns the credential stored for scope, or ok=false when the
// scope has never been saved.
func (s *Store) Load(ctx context.Context, scope string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM credentials WHERE scope = ?", scope).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load credential for %s: %w", scope, err)
	}

	// Rows written by older versions may predate sanitization.
	return Sanitize(value), true, nil
}

// ForIdentity resolves the credential a standard-tier request should
// use: the identity's own scope first, then the legacy token file.
// Absence is not an error; anonymous access degrades gracefully.
func (s *Store) ForIdentity(ctx context.Context, identity string) (string, bool, error) {
	if identity != "" {
		value, ok, err := s.Load(ctx, UserScope(identity))
		if err != nil || ok {
			return value, ok, err
		}
	}
	return s.legacy()
}

// VIP resolves the shared VIP credential: the VIP scope first, then
// the legacy token file.
func (s *Store) VIP(ctx context.Context) (string, bool, error) {
	value, ok, err := s.Load(ctx, VIPScope)
	if err != nil || ok {
		return value, ok, err
	}
	return s.legacy()
}

// legacy reads the single-token file older installs wrote.
func (s *Store) legacy() (string, bool, error) {
	if s.legacyPath == "" {
		return "", false, nil
	}
	raw, err := os.ReadFile(s.legacyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read legacy token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", false, nil
	}
	// Older installs wrote the bare token; the gateway expects it as a
	// token cookie.
	if !strings.Contains(token, "=") {
		return "token=" + token, true, nil
	}
	token = Sanitize(token)
	return token, token != "", nil
}
