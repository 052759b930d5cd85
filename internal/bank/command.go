package bank

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"tech-quiz/internal/opentdb"
	"tech-quiz/internal/quiz"
)

var ErrUsage = errors.New("usage")

type Fetcher interface {
	FetchQuestions(ctx context.Context, query opentdb.Query) ([]opentdb.RawQuestion, error)
}

// Command runs one bank maintenance subcommand against repo.
type Command struct {
	Repo    quiz.QuestionRepository
	Fetcher Fetcher
	Out     io.Writer
	Logger  *log.Logger
}

func PrintUsage(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  import <file.json>")
	fmt.Fprintln(out, "  fetch [-category id] [-difficulty easy|medium|hard] <amount>")
	fmt.Fprintln(out, "  export <file.json>")
	fmt.Fprintln(out, "  count")
	fmt.Fprintln(out, "  show <id>")
	fmt.Fprintln(out, "  recategorize <id> <category>")
	fmt.Fprintln(out, "  delete <id>")
}

func (c *Command) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch strings.ToLower(args[0]) {
	case "import":
		if len(args) != 2 {
			return ErrUsage
		}
		return c.importFile(ctx, args[1])
	case "fetch":
		return c.fetch(ctx, args[1:])
	case "export":
		if len(args) != 2 {
			return ErrUsage
		}
		return c.exportFile(ctx, args[1])
	case "count":
		count, err := c.Repo.CountAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "%d questions\n", count)
		return nil
	case "show":
		id, err := parseID(args, 1, 2)
		if err != nil {
			return err
		}
		question, err := c.Repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		printQuestion(c.Out, question)
		return nil
	case "recategorize":
		if len(args) != 3 {
			return ErrUsage
		}
		id, err := parseID(args, 1, 3)
		if err != nil {
			return err
		}
		question, err := c.Repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		question.Category = strings.TrimSpace(args[2])
		if question.Category == "" {
			return ErrUsage
		}
		if err := c.Repo.Update(ctx, question); err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "question %d moved to %s\n", id, question.Category)
		return nil
	case "delete":
		id, err := parseID(args, 1, 2)
		if err != nil {
			return err
		}
		if err := c.Repo.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "question %d deleted\n", id)
		return nil
	default:
		return ErrUsage
	}
}

func (c *Command) importFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	questions, err := Decode(file)
	if err != nil {
		return err
	}
	return c.seed(ctx, questions)
}

func (c *Command) fetch(ctx context.Context, args []string) error {
	if c.Fetcher == nil {
		return errors.New("question fetcher is not configured")
	}

	flags := flag.NewFlagSet("fetch", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	category := flags.Int("category", 0, "OpenTDB category id")
	difficulty := flags.String("difficulty", "", "easy, medium or hard")
	if err := flags.Parse(args); err != nil {
		return ErrUsage
	}

	amount := 10
	if flags.NArg() > 0 {
		value, err := strconv.Atoi(flags.Arg(0))
		if err != nil || value <= 0 {
			return fmt.Errorf("%w: amount must be a positive integer", ErrUsage)
		}
		amount = value
	}

	raw, err := c.Fetcher.FetchQuestions(ctx, opentdb.Query{
		Amount:     amount,
		Category:   *category,
		Difficulty: *difficulty,
	})
	if err != nil {
		return err
	}
	return c.seed(ctx, FromOpenTDB(raw))
}

func (c *Command) exportFile(ctx context.Context, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	count, err := Export(ctx, c.Repo, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "exported %d questions to %s\n", count, path)
	return nil
}

func (c *Command) seed(ctx context.Context, questions []quiz.Question) error {
	report, err := Seed(ctx, c.Repo, questions, c.Logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "inserted %d, skipped %d already present\n", report.Inserted, report.Skipped)
	return nil
}

func parseID(args []string, index, wantArgs int) (int64, error) {
	if len(args) < wantArgs || len(args) <= index {
		return 0, ErrUsage
	}
	id, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", ErrUsage)
	}
	return id, nil
}

func printQuestion(out io.Writer, question quiz.Question) {
	fmt.Fprintf(out, "#%d [%s | %s]\n", question.ID, question.Category, question.Difficulty)
	fmt.Fprintf(out, "%s\n", question.Text)
	fmt.Fprintf(out, "  correct: %s\n", question.CorrectAnswer)
	for _, answer := range question.IncorrectAnswers {
		fmt.Fprintf(out, "  wrong:   %s\n", answer)
	}
}
