package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"tech-quiz/internal/quiz"
)

const questionColumns = `id, category, difficulty, question_text, correct_answer, incorrect_answers_json`

type rowScanner interface {
	Scan(dest ...any) error
}

// Sample draws up to n distinct questions uniformly at random.
func (s *SQLiteStore) Sample(ctx context.Context, n int) ([]quiz.Question, error) {
	if n <= 0 {
		return []quiz.Question{}, nil
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY RANDOM() LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (quiz.Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	question, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Question{}, quiz.ErrQuestionNotFound
		}
		return quiz.Question{}, err
	}
	return question, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, question *quiz.Question) error {
	incorrectJSON, err := encodeAnswers(question.IncorrectAnswers)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO questions (category, difficulty, question_text, correct_answer, incorrect_answers_json)
		 VALUES (?, ?, ?, ?, ?)`,
		question.Category,
		question.Difficulty,
		question.Text,
		question.CorrectAnswer,
		incorrectJSON,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	question.ID = id
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, question quiz.Question) error {
	incorrectJSON, err := encodeAnswers(question.IncorrectAnswers)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE questions
		 SET category = ?, difficulty = ?, question_text = ?, correct_answer = ?, incorrect_answers_json = ?
		 WHERE id = ?`,
		question.Category,
		question.Difficulty,
		question.Text,
		question.CorrectAnswer,
		incorrectJSON,
		question.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrQuestionNotFound)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrQuestionNotFound)
}

func (s *SQLiteStore) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteStore) ExistsByText(ctx context.Context, text string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT 1 FROM questions WHERE question_text = ? LIMIT 1`,
		text,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func scanQuestions(rows *sql.Rows) ([]quiz.Question, error) {
	questions := make([]quiz.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func scanQuestion(row rowScanner) (quiz.Question, error) {
	var (
		question      quiz.Question
		incorrectJSON string
	)
	if err := row.Scan(
		&question.ID,
		&question.Category,
		&question.Difficulty,
		&question.Text,
		&question.CorrectAnswer,
		&incorrectJSON,
	); err != nil {
		return quiz.Question{}, err
	}

	if err := json.Unmarshal([]byte(incorrectJSON), &question.IncorrectAnswers); err != nil {
		return quiz.Question{}, err
	}
	if question.IncorrectAnswers == nil {
		question.IncorrectAnswers = []string{}
	}
	return question, nil
}

func encodeAnswers(answers []string) (string, error) {
	if answers == nil {
		answers = []string{}
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
