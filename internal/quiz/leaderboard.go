package quiz

import (
	"context"
	"sort"
)

const LeaderboardSize = 10

type LeaderboardEntry struct {
	Username string
	Points   int
}

type Ranking struct {
	attempts AttemptStore
	size     int
}

func NewRanking(attempts AttemptStore) *Ranking {
	return &Ranking{attempts: attempts, size: LeaderboardSize}
}

// ComputeLeaderboard ranks every user with at least one attempt by total
// correct answers and keeps the top entries.
func (r *Ranking) ComputeLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	totals, err := r.attempts.SumCorrectByUser(ctx)
	if err != nil {
		return nil, &StorageError{Op: "sum correct answers", Err: err}
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for _, total := range totals {
		points := total.Points
		if points < 0 {
			points = 0
		}
		entries = append(entries, LeaderboardEntry{
			Username: total.Username,
			Points:   points,
		})
	}

	return rankEntries(entries, r.size), nil
}

func rankEntries(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return leaderboardBefore(entries[i], entries[j])
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func leaderboardBefore(a, b LeaderboardEntry) bool {
	// Ranking policy:
	// 1) more correct answers first
	// 2) username lexical order for deterministic output
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	return a.Username < b.Username
}
