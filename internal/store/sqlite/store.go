// internal/store/sqlite/store.go

// Package sqlite implements the user and authority store on SQLite. It
// backs both resolver interfaces consumed by the authentication filter:
// users are looked up by username, and their permitted path patterns are
// derived through role membership.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"authgate/internal/auth"
	"authgate/internal/observability/logging"
	"authgate/internal/observability/metrics"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed user and authority store
type Store struct {
	db      *sql.DB
	logger  *logging.Logger
	metrics *metrics.Collector
}

// Open opens (and if necessary initializes) the store at path. Use
// ":memory:" for an ephemeral store.
func Open(path string, logger *logging.Logger, metricsCollector *metrics.Collector) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &Store{
		db:      db,
		logger:  logger.WithModule("store.sqlite"),
		metrics: metricsCollector,
	}

	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("User store opened", "path", path)
	return s, nil
}

func (s *Store) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL DEFAULT '',
			status INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id INTEGER NOT NULL REFERENCES users(id),
			role_id INTEGER NOT NULL REFERENCES roles(id),
			PRIMARY KEY (user_id, role_id)
		)`,
		`CREATE TABLE IF NOT EXISTS role_authorities (
			role_id INTEGER NOT NULL REFERENCES roles(id),
			pattern TEXT NOT NULL,
			PRIMARY KEY (role_id, pattern)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize store schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// FindByUsername implements auth.UserResolver. It returns nil without an
// error when no user has the given username.
func (s *Store) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordStoreQuery("find_by_username", time.Since(start))
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, status, created_at FROM users WHERE username = ?`,
		username)

	var user auth.User
	err := row.Scan(&user.ID, &user.Username, &user.DisplayName, &user.Status, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %q: %w", username, err)
	}

	return &user, nil
}

// AuthoritiesOf implements auth.AuthorityResolver. It returns every path
// pattern granted to the user through any of their roles.
func (s *Store) AuthoritiesOf(ctx context.Context, user *auth.User) ([]string, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordStoreQuery("authorities_of", time.Since(start))
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT ra.pattern
		 FROM role_authorities ra
		 JOIN user_roles ur ON ur.role_id = ra.role_id
		 WHERE ur.user_id = ?
		 ORDER BY ra.pattern`,
		user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query authorities for user %d: %w", user.ID, err)
	}
	defer rows.Close()

	var patterns []string
	for rows.Next() {
		var pattern string
		if err := rows.Scan(&pattern); err != nil {
			return nil, fmt.Errorf("failed to scan authority: %w", err)
		}
		patterns = append(patterns, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read authorities: %w", err)
	}

	return patterns, nil
}

// CreateUser inserts a user and returns its record
func (s *Store) CreateUser(ctx context.Context, username, displayName string) (*auth.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, display_name) VALUES (?, ?)`,
		username, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new user id: %w", err)
	}

	return s.findByID(ctx, id)
}

func (s *Store) findByID(ctx context.Context, id int64) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, status, created_at FROM users WHERE id = ?`, id)

	var user auth.User
	if err := row.Scan(&user.ID, &user.Username, &user.DisplayName, &user.Status, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", id, err)
	}
	return &user, nil
}

// CreateRole inserts a role and returns its id
func (s *Store) CreateRole(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO roles (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create role %q: %w", name, err)
	}
	return res.LastInsertId()
}

// AssignRole grants a role to a user
func (s *Store) AssignRole(ctx context.Context, userID, roleID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)`,
		userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}
	return nil
}

// GrantAuthority attaches a path pattern to a role
func (s *Store) GrantAuthority(ctx context.Context, roleID int64, pattern string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO role_authorities (role_id, pattern) VALUES (?, ?)`,
		roleID, pattern)
	if err != nil {
		return fmt.Errorf("failed to grant authority %q to role %d: %w", pattern, roleID, err)
	}
	return nil
}
