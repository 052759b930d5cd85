// Package bank moves questions between JSON files, OpenTDB and the question
// repository. Data-quality checks live here, not in the quiz engine.
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"tech-quiz/internal/opentdb"
	"tech-quiz/internal/quiz"
)

var ErrDuplicateOption = errors.New("correct answer repeats an incorrect answer or incorrect answers repeat")

// item is the on-disk shape of one question.
type item struct {
	Category         string   `json:"category" validate:"required"`
	Difficulty       string   `json:"difficulty"`
	QuestionText     string   `json:"question_text" validate:"required"`
	CorrectAnswer    string   `json:"correct_answer" validate:"required"`
	IncorrectAnswers []string `json:"incorrect_answers" validate:"min=1,max=10,dive,required"`
}

// ItemError points at the offending entry of an import file.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("question #%d: %v", e.Index+1, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

var validate = validator.New()

// Decode parses a JSON array of questions and validates every entry.
func Decode(r io.Reader) ([]quiz.Question, error) {
	var items []item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	questions := make([]quiz.Question, 0, len(items))
	for idx, entry := range items {
		entry = trimItem(entry)
		if err := validate.Struct(entry); err != nil {
			return nil, &ItemError{Index: idx, Err: err}
		}
		if err := checkDistinctOptions(entry.CorrectAnswer, entry.IncorrectAnswers); err != nil {
			return nil, &ItemError{Index: idx, Err: err}
		}
		questions = append(questions, quiz.Question{
			Category:         entry.Category,
			Difficulty:       entry.Difficulty,
			Text:             entry.QuestionText,
			CorrectAnswer:    entry.CorrectAnswer,
			IncorrectAnswers: entry.IncorrectAnswers,
		})
	}
	return questions, nil
}

// FromOpenTDB converts API payloads, unescaping the HTML entities OpenTDB
// puts in every text field. Entries with clashing options are dropped.
func FromOpenTDB(raw []opentdb.RawQuestion) []quiz.Question {
	questions := make([]quiz.Question, 0, len(raw))
	for _, entry := range raw {
		incorrect := make([]string, 0, len(entry.IncorrectAnswers))
		for _, answer := range entry.IncorrectAnswers {
			incorrect = append(incorrect, html.UnescapeString(answer))
		}

		question := quiz.Question{
			Category:         html.UnescapeString(entry.Category),
			Difficulty:       entry.Difficulty,
			Text:             html.UnescapeString(entry.Question),
			CorrectAnswer:    html.UnescapeString(entry.CorrectAnswer),
			IncorrectAnswers: incorrect,
		}
		if checkDistinctOptions(question.CorrectAnswer, question.IncorrectAnswers) != nil {
			continue
		}
		questions = append(questions, question)
	}
	return questions
}

type SeedReport struct {
	Inserted int
	Skipped  int
}

// Seed inserts every question whose text is not already in the repository.
func Seed(ctx context.Context, repo quiz.QuestionRepository, questions []quiz.Question, logger *log.Logger) (SeedReport, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	var report SeedReport
	for idx := range questions {
		question := questions[idx]

		exists, err := repo.ExistsByText(ctx, question.Text)
		if err != nil {
			return report, &quiz.StorageError{Op: "lookup question", Err: err}
		}
		if exists {
			report.Skipped++
			continue
		}

		question.ID = 0
		if err := repo.Insert(ctx, &question); err != nil {
			return report, &quiz.StorageError{Op: "insert question", Err: err}
		}
		report.Inserted++
	}

	logger.Printf("seed finished inserted=%d skipped=%d", report.Inserted, report.Skipped)
	return report, nil
}

// Export writes the whole bank in the import format.
func Export(ctx context.Context, repo quiz.QuestionRepository, w io.Writer) (int, error) {
	questions, err := repo.List(ctx)
	if err != nil {
		return 0, &quiz.StorageError{Op: "list questions", Err: err}
	}

	items := make([]item, 0, len(questions))
	for _, question := range questions {
		items = append(items, item{
			Category:         question.Category,
			Difficulty:       question.Difficulty,
			QuestionText:     question.Text,
			CorrectAnswer:    question.CorrectAnswer,
			IncorrectAnswers: question.IncorrectAnswers,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func trimItem(entry item) item {
	entry.Category = strings.TrimSpace(entry.Category)
	entry.Difficulty = strings.TrimSpace(entry.Difficulty)
	entry.QuestionText = strings.TrimSpace(entry.QuestionText)
	entry.CorrectAnswer = strings.TrimSpace(entry.CorrectAnswer)

	incorrect := make([]string, 0, len(entry.IncorrectAnswers))
	for _, answer := range entry.IncorrectAnswers {
		incorrect = append(incorrect, strings.TrimSpace(answer))
	}
	entry.IncorrectAnswers = incorrect
	return entry
}

func checkDistinctOptions(correct string, incorrect []string) error {
	seen := make(map[string]struct{}, len(incorrect)+1)
	seen[correct] = struct{}{}
	for _, answer := range incorrect {
		if _, ok := seen[answer]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateOption, answer)
		}
		seen[answer] = struct{}{}
	}
	return nil
}
