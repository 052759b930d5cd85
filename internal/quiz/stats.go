package quiz

import (
	"context"
	"sort"
	"strconv"
)

type CategoryStat struct {
	Category string
	Correct  int
	Total    int
}

type Stats struct {
	TotalAttempts   int
	CorrectAttempts int
	AccuracyPct     float64
	PerCategory     []CategoryStat
}

func (s Stats) HasData() bool {
	return s.TotalAttempts > 0
}

// AccuracyLabel renders the accuracy with one decimal, e.g. "66.7".
func (s Stats) AccuracyLabel() string {
	return strconv.FormatFloat(s.AccuracyPct, 'f', 1, 64)
}

// Accuracy is correct/total as a percentage, 0 when there is nothing to divide.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

type Analytics struct {
	attempts AttemptStore
}

func NewAnalytics(attempts AttemptStore) *Analytics {
	return &Analytics{attempts: attempts}
}

func (a *Analytics) ComputeStats(ctx context.Context, user User) (Stats, error) {
	total, err := a.attempts.CountForUser(ctx, user.ID)
	if err != nil {
		return Stats{}, &StorageError{Op: "count attempts", Err: err}
	}
	if total == 0 {
		return Stats{PerCategory: []CategoryStat{}}, nil
	}

	correct, err := a.attempts.CountCorrectForUser(ctx, user.ID)
	if err != nil {
		return Stats{}, &StorageError{Op: "count correct attempts", Err: err}
	}

	breakdown, err := a.attempts.CategoryBreakdown(ctx, user.ID)
	if err != nil {
		return Stats{}, &StorageError{Op: "category breakdown", Err: err}
	}

	perCategory := make([]CategoryStat, 0, len(breakdown))
	for _, item := range breakdown {
		perCategory = append(perCategory, CategoryStat{
			Category: item.Category,
			Correct:  item.Correct,
			Total:    item.Total,
		})
	}
	sort.Slice(perCategory, func(i, j int) bool {
		return perCategory[i].Category < perCategory[j].Category
	})

	return Stats{
		TotalAttempts:   total,
		CorrectAttempts: correct,
		AccuracyPct:     Accuracy(correct, total),
		PerCategory:     perCategory,
	}, nil
}
