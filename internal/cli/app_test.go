package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tech-quiz/internal/auth"
	"tech-quiz/internal/quiz"
	"tech-quiz/internal/quiz/sqlite"
)

type testEnv struct {
	store *sqlite.SQLiteStore
	deps  Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.NewSQLiteStore(filepath.Join(t.TempDir(), "cli.db"), time.Second)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &testEnv{
		store: store,
		deps: Deps{
			Auth:      auth.NewService(store, bcrypt.MinCost),
			Engine:    quiz.NewEngine(store, store, 5),
			Analytics: quiz.NewAnalytics(store),
			Ranking:   quiz.NewRanking(store),
		},
	}
}

// addSingleOptionQuestions inserts questions whose only option is the
// correct one, so "1" always scores regardless of shuffling.
func (e *testEnv) addSingleOptionQuestions(t *testing.T, categories ...string) {
	t.Helper()

	for idx, category := range categories {
		question := quiz.Question{
			Category:         category,
			Difficulty:       "easy",
			Text:             "question " + category + string(rune('a'+idx)),
			CorrectAnswer:    "yes",
			IncorrectAnswers: []string{},
		}
		if err := e.store.Insert(context.Background(), &question); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
}

func (e *testEnv) run(t *testing.T, script string) string {
	t.Helper()

	var out bytes.Buffer
	app := NewApp(e.deps, strings.NewReader(script), &out)
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()

	for _, item := range want {
		if !strings.Contains(output, item) {
			t.Fatalf("output missing %q\noutput:\n%s", item, output)
		}
	}
}

func TestRunFullSession(t *testing.T) {
	env := newTestEnv(t)
	env.addSingleOptionQuestions(t, "Go", "SQL")

	script := strings.Join([]string{
		"2", "alice", "pw", "", // register
		"1", "alice", "pw", // login
		"1", "x", "7", "1", "1", "", // play: two rejects, then two answers
		"2", "", // stats
		"3", "", // ranking
		"4", // logout
		"0",
	}, "\n") + "\n"

	output := env.run(t, script)
	assertContains(t, output,
		"Account created",
		"Hello, alice",
		"--- QUESTION 1/2 ---",
		"That is not a number. Enter 1-1.",
		"There is no such option. Enter 1-1.",
		"Correct!",
		"Finished! You got 2/2.",
		"STATS FOR ALICE",
		"Correct: 2/2 (100.0%)",
		"- Go: 1/1",
		"- SQL: 1/1",
		"TOP 10 PLAYERS",
		"1. alice - 2 pts",
		"Bye!",
	)

	user, err := env.store.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	total, err := env.store.CountForUser(context.Background(), user.ID)
	if err != nil || total != 2 {
		t.Fatalf("CountForUser = (%d, %v), want (2, nil)", total, err)
	}
}

func TestRunRejectsBadLoginAndDuplicateAccount(t *testing.T) {
	env := newTestEnv(t)

	script := strings.Join([]string{
		"2", "bob", "pw", "",
		"2", "bob", "other", "",
		"1", "bob", "wrong", "",
		"9",
		"0",
	}, "\n") + "\n"

	output := env.run(t, script)
	assertContains(t, output,
		"That username is taken.",
		"Invalid credentials.",
		"Unknown option.",
	)
	if strings.Contains(output, "Hello, bob") {
		t.Fatalf("bad password must not log in\noutput:\n%s", output)
	}
}

func TestRunEmptyBankAndNoStats(t *testing.T) {
	env := newTestEnv(t)

	script := strings.Join([]string{
		"2", "carol", "pw", "",
		"1", "carol", "pw",
		"1", "",
		"2", "",
		"3", "",
		"0",
	}, "\n") + "\n"

	output := env.run(t, script)
	assertContains(t, output,
		"The question bank is empty.",
		"No games recorded yet.",
	)
}

func TestRunEndsCleanlyWhenInputStopsMidRound(t *testing.T) {
	env := newTestEnv(t)
	env.addSingleOptionQuestions(t, "Go", "SQL")

	// No trailing newline: the last "1" must still be read.
	script := strings.Join([]string{
		"2", "dave", "pw", "",
		"1", "dave", "pw",
		"1", "1",
	}, "\n")

	env.run(t, script)

	user, err := env.store.FindByUsername(context.Background(), "dave")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	total, err := env.store.CountForUser(context.Background(), user.ID)
	if err != nil || total != 1 {
		t.Fatalf("expected the answered question to be recorded, got (%d, %v)", total, err)
	}
}
