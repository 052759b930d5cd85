package quiz

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestRankingOrdersByPointsThenUsername(t *testing.T) {
	attempts := &fakeAttemptStore{
		points: []UserPoints{
			{UserID: 3, Username: "carol", Points: 3},
			{UserID: 2, Username: "bob", Points: 5},
			{UserID: 1, Username: "alice", Points: 5},
		},
	}

	entries, err := NewRanking(attempts).ComputeLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("ComputeLeaderboard failed: %v", err)
	}

	want := []LeaderboardEntry{
		{Username: "alice", Points: 5},
		{Username: "bob", Points: 5},
		{Username: "carol", Points: 3},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), entries)
	}
	for idx := range want {
		if entries[idx] != want[idx] {
			t.Fatalf("entry %d = %+v, want %+v", idx, entries[idx], want[idx])
		}
	}
}

func TestRankingTruncatesToTopTen(t *testing.T) {
	points := make([]UserPoints, 0, 15)
	for idx := 0; idx < 15; idx++ {
		points = append(points, UserPoints{
			UserID:   int64(idx),
			Username: "user" + strconv.Itoa(idx),
			Points:   idx,
		})
	}

	entries, err := NewRanking(&fakeAttemptStore{points: points}).ComputeLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("ComputeLeaderboard failed: %v", err)
	}
	if len(entries) != LeaderboardSize {
		t.Fatalf("expected %d entries, got %d", LeaderboardSize, len(entries))
	}
	if entries[0].Points != 14 || entries[9].Points != 5 {
		t.Fatalf("unexpected top ten: %+v", entries)
	}
	for idx := 1; idx < len(entries); idx++ {
		if entries[idx-1].Points < entries[idx].Points {
			t.Fatalf("leaderboard not sorted descending: %+v", entries)
		}
	}
}

func TestRankingKeepsZeroPointPlayers(t *testing.T) {
	attempts := &fakeAttemptStore{
		points: []UserPoints{
			{UserID: 1, Username: "zed", Points: 0},
			{UserID: 2, Username: "amy", Points: 0},
		},
	}

	entries, err := NewRanking(attempts).ComputeLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("ComputeLeaderboard failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Username != "amy" || entries[0].Points != 0 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestRankingEmpty(t *testing.T) {
	entries, err := NewRanking(&fakeAttemptStore{}).ComputeLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("ComputeLeaderboard failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestRankingWrapsStorageError(t *testing.T) {
	_, err := NewRanking(&fakeAttemptStore{sumErr: errors.New("boom")}).ComputeLeaderboard(context.Background())
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}
