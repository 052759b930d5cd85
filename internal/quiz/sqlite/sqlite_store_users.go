package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"tech-quiz/internal/quiz"
)

func (s *SQLiteStore) FindByUsername(ctx context.Context, username string) (quiz.User, error) {
	var (
		user          quiz.User
		createdAtUnix int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at_unix FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.User{}, quiz.ErrUserNotFound
		}
		return quiz.User{}, err
	}

	user.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	return user, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (quiz.User, error) {
	createdAt := time.Now().UTC()
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (username, password_hash, created_at_unix) VALUES (?, ?, ?)`,
		username,
		passwordHash,
		createdAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return quiz.User{}, quiz.ErrUserExists
		}
		return quiz.User{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return quiz.User{}, err
	}

	return quiz.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
