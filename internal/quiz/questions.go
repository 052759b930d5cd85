package quiz

import (
	"math/rand"
	"strconv"
	"strings"
)

type SelectionStatus int

const (
	SelectionValid SelectionStatus = iota
	SelectionEmpty
	SelectionNotNumber
	SelectionOutOfRange
)

func (s SelectionStatus) String() string {
	switch s {
	case SelectionValid:
		return "valid"
	case SelectionEmpty:
		return "empty"
	case SelectionNotNumber:
		return "not_a_number"
	case SelectionOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Selection is the outcome of reading one answer line. Index is zero-based
// and only meaningful when Status is SelectionValid.
type Selection struct {
	Index  int
	Status SelectionStatus
}

func (s Selection) Valid() bool {
	return s.Status == SelectionValid
}

// ParseSelection validates a 1-based option number typed by the player.
func ParseSelection(raw string, optionCount int) Selection {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Selection{Index: -1, Status: SelectionEmpty}
	}

	for _, r := range value {
		if r < '0' || r > '9' {
			return Selection{Index: -1, Status: SelectionNotNumber}
		}
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		// Only overflow gets here; a number that large is out of range anyway.
		return Selection{Index: -1, Status: SelectionOutOfRange}
	}
	if number < 1 || number > optionCount {
		return Selection{Index: -1, Status: SelectionOutOfRange}
	}

	return Selection{Index: number - 1, Status: SelectionValid}
}

// BuildOptions returns the incorrect answers plus the correct answer in a
// uniformly shuffled order.
func BuildOptions(question Question, rng *rand.Rand) []string {
	options := make([]string, 0, len(question.IncorrectAnswers)+1)
	options = append(options, question.IncorrectAnswers...)
	options = append(options, question.CorrectAnswer)

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func IsCorrect(question Question, selected string) bool {
	return selected == question.CorrectAnswer
}
