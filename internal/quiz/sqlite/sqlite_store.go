package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultPath        = "tech_quiz.db"
	defaultBusyTimeout = 5 * time.Second
)

// SQLiteStore backs the question repository, the attempt store and the
// user directory with one SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string, busyTimeout time.Duration) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPath
	}
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	dsn := fmt.Sprintf("%s%s_busy_timeout=%d&_foreign_keys=on", path, separator, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
