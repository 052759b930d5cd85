package sqlite

import (
	"context"
	"time"

	"tech-quiz/internal/quiz"
)

// InsertAttempt writes one attempt as its own autocommitted statement, so
// an answered question is durable before the round moves on.
func (s *SQLiteStore) InsertAttempt(ctx context.Context, attempt *quiz.Attempt) error {
	if attempt.AnsweredAt.IsZero() {
		attempt.AnsweredAt = time.Now().UTC()
	}

	correct := 0
	if attempt.Correct {
		correct = 1
	}

	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO attempts (user_id, question_id, round_id, is_correct, category, answered_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		attempt.UserID,
		attempt.QuestionID,
		attempt.RoundID,
		correct,
		attempt.Category,
		attempt.AnsweredAt.UnixNano(),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	attempt.ID = id
	return nil
}

func (s *SQLiteStore) CountForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM attempts WHERE user_id = ?`,
		userID,
	).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CountCorrectForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM attempts WHERE user_id = ? AND is_correct = 1`,
		userID,
	).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CategoryBreakdown(ctx context.Context, userID int64) ([]quiz.CategoryCount, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT category, COUNT(*) AS total, COALESCE(SUM(is_correct), 0) AS correct
		 FROM attempts
		 WHERE user_id = ?
		 GROUP BY category`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := make([]quiz.CategoryCount, 0)
	for rows.Next() {
		var item quiz.CategoryCount
		if err := rows.Scan(&item.Category, &item.Total, &item.Correct); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, item)
	}

	return breakdown, rows.Err()
}

// SumCorrectByUser returns one row per user that has attempts. Ordering is
// left to the caller.
func (s *SQLiteStore) SumCorrectByUser(ctx context.Context) ([]quiz.UserPoints, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT u.id, u.username, COALESCE(SUM(a.is_correct), 0) AS points
		 FROM users u
		 JOIN attempts a ON a.user_id = u.id
		 GROUP BY u.id, u.username`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]quiz.UserPoints, 0)
	for rows.Next() {
		var item quiz.UserPoints
		if err := rows.Scan(&item.UserID, &item.Username, &item.Points); err != nil {
			return nil, err
		}
		totals = append(totals, item)
	}

	return totals, rows.Err()
}
