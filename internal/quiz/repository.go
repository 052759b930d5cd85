package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyQuestionBank = errors.New("question bank is empty")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInputClosed       = errors.New("input closed")
)

// StorageError marks a failed read or write against the backing store.
// Callers report it and keep the session alive.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Question struct {
	ID               int64    `json:"id,omitempty"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"question_text"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Attempt is written once per presented question and never changed.
// Category is copied from the question so per-category stats need no join.
type Attempt struct {
	ID         int64
	UserID     int64
	QuestionID int64
	RoundID    string
	Correct    bool
	Category   string
	AnsweredAt time.Time
}

type CategoryCount struct {
	Category string
	Total    int
	Correct  int
}

type UserPoints struct {
	UserID   int64
	Username string
	Points   int
}

type QuestionRepository interface {
	Sample(ctx context.Context, n int) ([]Question, error)
	GetByID(ctx context.Context, id int64) (Question, error)
	Insert(ctx context.Context, question *Question) error
	Update(ctx context.Context, question Question) error
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int, error)
	ExistsByText(ctx context.Context, text string) (bool, error)
	List(ctx context.Context) ([]Question, error)
}

type AttemptStore interface {
	InsertAttempt(ctx context.Context, attempt *Attempt) error
	CountForUser(ctx context.Context, userID int64) (int, error)
	CountCorrectForUser(ctx context.Context, userID int64) (int, error)
	SumCorrectByUser(ctx context.Context) ([]UserPoints, error)
	CategoryBreakdown(ctx context.Context, userID int64) ([]CategoryCount, error)
}

type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
}
