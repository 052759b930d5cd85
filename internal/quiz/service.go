package quiz

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const DefaultRoundSize = 5

// PresentedQuestion is what the player sees for one question of a round.
type PresentedQuestion struct {
	Number     int
	Total      int
	Category   string
	Difficulty string
	Text       string
	Options    []string
}

// Prompter is the interactive side of a round. ReadAnswer blocks until the
// player submits a line and returns io.EOF when input is gone.
type Prompter interface {
	ShowQuestion(question PresentedQuestion)
	ReadAnswer(optionCount int) (string, error)
	RejectAnswer(selection Selection, optionCount int)
	ShowOutcome(correct bool, correctAnswer string)
	ShowStorageFailure(err error)
}

type RoundResult struct {
	RoundID   string
	Score     int
	Presented int
	Recorded  int
}

type Engine struct {
	questions QuestionRepository
	attempts  AttemptStore
	roundSize int
	rng       *rand.Rand
	now       func() time.Time
	newID     func() string
	logger    *log.Logger
}

type EngineOption func(*Engine)

func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(questions QuestionRepository, attempts AttemptStore, roundSize int, opts ...EngineOption) *Engine {
	if roundSize <= 0 {
		roundSize = DefaultRoundSize
	}

	engine := &Engine{
		questions: questions,
		attempts:  attempts,
		roundSize: roundSize,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.NewString() },
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *Engine) RoundSize() int {
	return e.roundSize
}

// PlayRound draws a sample, asks every question in draw order and persists
// one attempt per answered question before moving on.
//
// Invalid selections re-prompt the same question. A failed attempt write
// abandons that question only: it is not scored and the round continues.
// Input EOF stops the round with ErrInputClosed and the partial result.
func (e *Engine) PlayRound(ctx context.Context, user User, prompter Prompter) (RoundResult, error) {
	questions, err := e.questions.Sample(ctx, e.roundSize)
	if err != nil {
		return RoundResult{}, &StorageError{Op: "sample questions", Err: err}
	}
	if len(questions) == 0 {
		return RoundResult{}, ErrEmptyQuestionBank
	}

	result := RoundResult{RoundID: e.newID()}
	e.logger.Printf("round %s started user=%s questions=%d", result.RoundID, user.Username, len(questions))

	for idx, question := range questions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		options := BuildOptions(question, e.rng)
		prompter.ShowQuestion(PresentedQuestion{
			Number:     idx + 1,
			Total:      len(questions),
			Category:   question.Category,
			Difficulty: question.Difficulty,
			Text:       question.Text,
			Options:    options,
		})
		result.Presented++

		selection, err := readSelection(prompter, len(options))
		if err != nil {
			e.logger.Printf("round %s interrupted at question %d: %v", result.RoundID, idx+1, err)
			return result, err
		}

		correct := IsCorrect(question, options[selection.Index])
		attempt := Attempt{
			UserID:     user.ID,
			QuestionID: question.ID,
			RoundID:    result.RoundID,
			Correct:    correct,
			Category:   question.Category,
			AnsweredAt: e.now(),
		}
		if err := e.attempts.InsertAttempt(ctx, &attempt); err != nil {
			storageErr := &StorageError{Op: "record attempt", Err: err}
			e.logger.Printf("round %s question=%d: %v", result.RoundID, question.ID, storageErr)
			prompter.ShowStorageFailure(storageErr)
			continue
		}

		result.Recorded++
		if correct {
			result.Score++
		}
		prompter.ShowOutcome(correct, question.CorrectAnswer)
	}

	e.logger.Printf("round %s finished user=%s score=%d/%d", result.RoundID, user.Username, result.Score, result.Presented)
	return result, nil
}

func readSelection(prompter Prompter, optionCount int) (Selection, error) {
	for {
		raw, err := prompter.ReadAnswer(optionCount)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Selection{}, ErrInputClosed
			}
			return Selection{}, err
		}

		selection := ParseSelection(raw, optionCount)
		if selection.Valid() {
			return selection, nil
		}
		prompter.RejectAnswer(selection, optionCount)
	}
}
