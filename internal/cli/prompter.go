package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"tech-quiz/internal/quiz"
)

// consolePrompter renders a round on a terminal.
type consolePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p *consolePrompter) ShowQuestion(question quiz.PresentedQuestion) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "--- QUESTION %d/%d ---\n", question.Number, question.Total)
	fmt.Fprintf(p.out, "[Category: %s | Difficulty: %s]\n", question.Category, displayDifficulty(question.Difficulty))
	fmt.Fprintf(p.out, "%s\n\n", question.Text)
	for idx, option := range question.Options {
		fmt.Fprintf(p.out, "   %d. %s\n", idx+1, option)
	}
}

func (p *consolePrompter) ReadAnswer(optionCount int) (string, error) {
	fmt.Fprintf(p.out, "\nYour answer (1-%d): ", optionCount)
	return readLine(p.reader)
}

func (p *consolePrompter) RejectAnswer(selection quiz.Selection, optionCount int) {
	switch selection.Status {
	case quiz.SelectionEmpty:
		fmt.Fprintln(p.out, "Please type the number of an option.")
	case quiz.SelectionNotNumber:
		fmt.Fprintf(p.out, "That is not a number. Enter 1-%d.\n", optionCount)
	case quiz.SelectionOutOfRange:
		fmt.Fprintf(p.out, "There is no such option. Enter 1-%d.\n", optionCount)
	}
}

func (p *consolePrompter) ShowOutcome(correct bool, correctAnswer string) {
	if correct {
		fmt.Fprintln(p.out, "Correct!")
		return
	}
	fmt.Fprintf(p.out, "Wrong! The answer was: %s\n", correctAnswer)
}

func (p *consolePrompter) ShowStorageFailure(err error) {
	fmt.Fprintf(p.out, "Could not save this answer (%v). Moving on.\n", err)
}

// readLine returns one trimmed line. A final line without a newline is
// returned as is; io.EOF comes only when nothing is left.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func displayDifficulty(difficulty string) string {
	if strings.TrimSpace(difficulty) == "" {
		return "-"
	}
	return difficulty
}
