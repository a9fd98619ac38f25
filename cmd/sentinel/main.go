package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/sentinelsec/sentinel/internal/cli"
	"github.com/sentinelsec/sentinel/internal/db"
	"github.com/sentinelsec/sentinel/internal/repository"
	"github.com/sentinelsec/sentinel/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.sentinel/sentinel.db
	dbPath := os.Getenv("SENTINEL_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".sentinel", "sentinel.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	groupRepo := repository.NewSQLiteWorkgroupRepo(database)
	assetRepo := repository.NewSQLiteAssetRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Mutation audit log to stderr, opt-in.
	var observers []service.MutationObserver
	if os.Getenv("SENTINEL_LOG") != "" {
		observers = append(observers, service.NewLogMutationObserver(os.Stderr))
	}

	actor := os.Getenv("SENTINEL_ACTOR")
	if actor == "" {
		actor = os.Getenv("USER")
	}

	app := &cli.App{
		Groups:       service.NewWorkgroupService(groupRepo, uow, observers...),
		Assets:       service.NewAssetService(assetRepo, groupRepo),
		DefaultActor: actor,
	}

	// Plain output when stdout is not a terminal.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
