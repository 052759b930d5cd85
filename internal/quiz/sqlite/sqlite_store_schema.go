package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT '',
			question_text TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			incorrect_answers_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			-- No FK on question_id: deleting a question must not rewrite history.
			question_id INTEGER NOT NULL,
			round_id TEXT NOT NULL,
			is_correct INTEGER NOT NULL CHECK (is_correct IN (0, 1)),
			category TEXT NOT NULL,
			answered_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_text ON questions(question_text);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_category ON attempts(user_id, category);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
