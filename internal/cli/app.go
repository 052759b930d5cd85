package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"tech-quiz/internal/auth"
	"tech-quiz/internal/quiz"
)

type Deps struct {
	Auth      *auth.Service
	Engine    *quiz.Engine
	Analytics *quiz.Analytics
	Ranking   *quiz.Ranking
	Logger    *log.Logger
}

type App struct {
	deps   Deps
	reader *bufio.Reader
	out    io.Writer
	logger *log.Logger
	user   *quiz.User
}

func NewApp(deps Deps, in io.Reader, out io.Writer) *App {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &App{
		deps:   deps,
		reader: bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// Run drives the menu until the player exits or input ends. Only input
// errors other than EOF are returned.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "=== TECH QUIZ ===")

	for {
		a.printMenu()
		fmt.Fprint(a.out, "\nOption: ")

		choice, err := readLine(a.reader)
		if err != nil {
			return endOfSession(a.out, err)
		}

		done, err := a.dispatch(ctx, choice)
		if err != nil {
			return endOfSession(a.out, err)
		}
		if done {
			fmt.Fprintln(a.out, "Bye!")
			return nil
		}
	}
}

func (a *App) printMenu() {
	fmt.Fprintln(a.out)
	if a.user == nil {
		fmt.Fprintln(a.out, "1. Login")
		fmt.Fprintln(a.out, "2. Create account")
		fmt.Fprintln(a.out, "0. Exit")
		return
	}

	fmt.Fprintf(a.out, "Hello, %s\n", a.user.Username)
	fmt.Fprintln(a.out, "1. Play")
	fmt.Fprintln(a.out, "2. Stats")
	fmt.Fprintln(a.out, "3. Ranking")
	fmt.Fprintln(a.out, "4. Logout")
	fmt.Fprintln(a.out, "0. Exit")
}

func (a *App) dispatch(ctx context.Context, choice string) (bool, error) {
	if choice == "0" {
		return true, nil
	}

	if a.user == nil {
		switch choice {
		case "1":
			return false, a.login(ctx)
		case "2":
			return false, a.register(ctx)
		}
	} else {
		switch choice {
		case "1":
			return false, a.play(ctx)
		case "2":
			return false, a.showStats(ctx)
		case "3":
			return false, a.showRanking(ctx)
		case "4":
			a.logger.Printf("logout user=%s", a.user.Username)
			a.user = nil
			return false, nil
		}
	}

	fmt.Fprintln(a.out, "Unknown option.")
	return false, nil
}

func (a *App) login(ctx context.Context) error {
	fmt.Fprintln(a.out, "\n--- LOGIN ---")
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	user, err := a.deps.Auth.Login(ctx, username, password)
	if err != nil {
		a.reportAuthError(err)
		return a.waitForEnter()
	}

	a.logger.Printf("login user=%s", user.Username)
	a.user = &user
	return nil
}

func (a *App) register(ctx context.Context) error {
	fmt.Fprintln(a.out, "\n--- CREATE ACCOUNT ---")
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	user, err := a.deps.Auth.Register(ctx, username, password)
	if err != nil {
		a.reportAuthError(err)
		return a.waitForEnter()
	}

	a.logger.Printf("registered user=%s", user.Username)
	fmt.Fprintln(a.out, "Account created. You can log in now.")
	return a.waitForEnter()
}

func (a *App) play(ctx context.Context) error {
	prompter := &consolePrompter{reader: a.reader, out: a.out}

	result, err := a.deps.Engine.PlayRound(ctx, *a.user, prompter)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrEmptyQuestionBank):
		fmt.Fprintln(a.out, "\nThe question bank is empty. Import questions first.")
		return a.waitForEnter()
	case errors.Is(err, quiz.ErrInputClosed):
		return err
	default:
		a.reportStorageError(err)
		return a.waitForEnter()
	}

	fmt.Fprintf(a.out, "\nFinished! You got %d/%d.\n", result.Score, result.Presented)
	if lost := result.Presented - result.Recorded; lost > 0 {
		fmt.Fprintf(a.out, "%d answer(s) could not be saved and were not scored.\n", lost)
	}
	return a.waitForEnter()
}

func (a *App) showStats(ctx context.Context) error {
	stats, err := a.deps.Analytics.ComputeStats(ctx, *a.user)
	if err != nil {
		a.reportStorageError(err)
		return a.waitForEnter()
	}

	fmt.Fprintf(a.out, "\nSTATS FOR %s\n", strings.ToUpper(a.user.Username))
	if !stats.HasData() {
		fmt.Fprintln(a.out, "No games recorded yet.")
		return a.waitForEnter()
	}

	fmt.Fprintf(a.out, "Correct: %d/%d (%s%%)\n", stats.CorrectAttempts, stats.TotalAttempts, stats.AccuracyLabel())
	fmt.Fprintln(a.out, "\nBy category:")
	for _, category := range stats.PerCategory {
		fmt.Fprintf(a.out, "- %s: %d/%d\n", category.Category, category.Correct, category.Total)
	}
	return a.waitForEnter()
}

func (a *App) showRanking(ctx context.Context) error {
	entries, err := a.deps.Ranking.ComputeLeaderboard(ctx)
	if err != nil {
		a.reportStorageError(err)
		return a.waitForEnter()
	}

	fmt.Fprintf(a.out, "\nTOP %d PLAYERS\n", quiz.LeaderboardSize)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No games recorded yet.")
	}
	for idx, entry := range entries {
		fmt.Fprintf(a.out, "%d. %s - %d pts\n", idx+1, entry.Username, entry.Points)
	}
	return a.waitForEnter()
}

func (a *App) readCredentials() (string, string, error) {
	fmt.Fprint(a.out, "Username: ")
	username, err := readLine(a.reader)
	if err != nil {
		return "", "", err
	}

	fmt.Fprint(a.out, "Password: ")
	password, err := readLine(a.reader)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (a *App) waitForEnter() error {
	fmt.Fprint(a.out, "\nPress Enter to continue...")
	_, err := readLine(a.reader)
	return err
}

func (a *App) reportAuthError(err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		fmt.Fprintln(a.out, "Invalid credentials.")
	case errors.Is(err, quiz.ErrUserExists):
		fmt.Fprintln(a.out, "That username is taken.")
	case errors.Is(err, auth.ErrInvalidUsername):
		fmt.Fprintln(a.out, "Username must be 1-50 characters.")
	case errors.Is(err, auth.ErrInvalidPassword):
		fmt.Fprintln(a.out, "Password must not be blank (max 72 bytes).")
	default:
		a.reportStorageError(err)
	}
}

func (a *App) reportStorageError(err error) {
	a.logger.Printf("request failed: %v", err)
	fmt.Fprintf(a.out, "Something went wrong talking to the database (%v). Please try again.\n", err)
}

func endOfSession(out io.Writer, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, quiz.ErrInputClosed) {
		fmt.Fprintln(out)
		return nil
	}
	return err
}
