package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/moneymentor/advisor/internal/cli"
	"github.com/moneymentor/advisor/internal/convo"
	"github.com/moneymentor/advisor/internal/db"
	"github.com/moneymentor/advisor/internal/funds"
	"github.com/moneymentor/advisor/internal/intelligence"
	"github.com/moneymentor/advisor/internal/llm"
	"github.com/moneymentor/advisor/internal/repository"
	"github.com/moneymentor/advisor/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	// Determine DB path: env var or default ~/.advisor/advisor.db
	dbPath := os.Getenv("ADVISOR_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".advisor", "advisor.db")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Fee table: env override or the embedded default.
	var table *funds.Table
	if path := os.Getenv("ADVISOR_FEE_TABLE"); path != "" {
		table, err = funds.Load(path)
	} else {
		table, err = funds.DefaultTable()
	}
	if err != nil {
		return fmt.Errorf("loading fee table: %w", err)
	}

	// Language model is optional. Without it the dialogue machine runs
	// on deterministic extraction and clarification.
	var client llm.Client
	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewSlogObserver(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		}
		client = llm.NewOpenAIClient(llmCfg, observer)
	}

	machine := convo.NewMachine(
		intelligence.NewExtractService(client),
		intelligence.NewClarifier(client),
		intelligence.NewFundMatcher(client, table),
		table,
	)

	var observers []service.UseCaseObserver
	if logUseCases, _ := strconv.ParseBool(os.Getenv("ADVISOR_LOG_USE_CASES")); logUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	advisor := service.NewAdvisorService(
		machine,
		repository.NewSQLiteSessionRepo(database),
		repository.NewSQLiteMessageRepo(database),
		db.NewSQLiteUnitOfWork(database),
		observers...,
	)

	app := &cli.App{
		Advisor: advisor,
		Funds:   table,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
