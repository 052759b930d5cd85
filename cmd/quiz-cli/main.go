package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"io/fs"
	"log"
	"os"

	"tech-quiz/internal/auth"
	"tech-quiz/internal/bank"
	"tech-quiz/internal/cli"
	"tech-quiz/internal/config"
	"tech-quiz/internal/quiz"
	"tech-quiz/internal/quiz/sqlite"
)

func main() {
	configPath := flag.String("config", "quiz.yaml", "path to YAML config (optional)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	roundSize := flag.Int("round-size", 0, "questions per round (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *roundSize > 0 {
		cfg.Quiz.RoundSize = *roundSize
	}

	logger, closeLog, err := openLogger(cfg.Log.File)
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer closeLog()

	store, err := sqlite.NewSQLiteStore(cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		log.Fatalf("open database %s: %v", cfg.Database.Path, err)
	}
	defer store.Close()

	ctx := context.Background()
	if cfg.Seed.OnStartup && cfg.Seed.File != "" {
		seedFromFile(ctx, store, cfg.Seed.File, logger)
	}

	app := cli.NewApp(cli.Deps{
		Auth:      auth.NewService(store, cfg.Auth.BcryptCost),
		Engine:    quiz.NewEngine(store, store, cfg.Quiz.RoundSize, quiz.WithLogger(logger)),
		Analytics: quiz.NewAnalytics(store),
		Ranking:   quiz.NewRanking(store),
		Logger:    logger,
	}, os.Stdin, os.Stdout)

	if err := app.Run(ctx); err != nil {
		log.Fatalf("quiz-cli: %v", err)
	}
}

func openLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(file, "quiz-cli ", log.LstdFlags|log.LUTC)
	return logger, func() { _ = file.Close() }, nil
}

// seedFromFile loads the configured bank file. Problems are warnings: the
// quiz still starts with whatever the database already holds.
func seedFromFile(ctx context.Context, store *sqlite.SQLiteStore, path string, logger *log.Logger) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("warning: question file %s not found; the bank stays as it is", path)
			return
		}
		log.Printf("warning: open question file: %v", err)
		return
	}
	defer file.Close()

	questions, err := bank.Decode(file)
	if err != nil {
		log.Printf("warning: question file %s: %v", path, err)
		return
	}

	report, err := bank.Seed(ctx, store, questions, logger)
	if err != nil {
		log.Printf("warning: seeding stopped: %v", err)
		return
	}
	if report.Inserted > 0 {
		log.Printf("loaded %d new questions from %s", report.Inserted, path)
	}
}
