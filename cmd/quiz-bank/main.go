package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"tech-quiz/internal/bank"
	"tech-quiz/internal/config"
	"tech-quiz/internal/opentdb"
	"tech-quiz/internal/quiz/sqlite"
)

func main() {
	configPath := flag.String("config", "quiz.yaml", "path to YAML config (optional)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	timeout := flag.Duration("timeout", 10*time.Second, "OpenTDB HTTP timeout")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: quiz-bank [-config file] [-db path] <command> [args]")
		bank.PrintUsage(os.Stderr)
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	store, err := sqlite.NewSQLiteStore(cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		log.Fatalf("open database %s: %v", cfg.Database.Path, err)
	}
	defer store.Close()

	command := &bank.Command{
		Repo:    store,
		Fetcher: opentdb.NewClient(&http.Client{Timeout: *timeout}),
		Out:     os.Stdout,
		Logger:  log.New(os.Stderr, "quiz-bank ", log.LstdFlags),
	}

	if err := command.Run(context.Background(), flag.Args()); err != nil {
		if errors.Is(err, bank.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
