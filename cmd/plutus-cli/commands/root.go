package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fortuna/plutus/internal/config"
	"github.com/fortuna/plutus/internal/ingest"
	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/service"
	"github.com/fortuna/plutus/internal/store"
	"github.com/fortuna/plutus/internal/store/repository"
)

// CollectorFactory builds the scraper used when a season is not stored
type CollectorFactory func(cfg config.Config) (service.Collector, func())

func defaultCollector(cfg config.Config) (service.Collector, func()) {
	return ingest.NewDefaultIngester(ingest.Options{
		HoopsHypeURL: cfg.HoopsHypeURL,
		BBRefURL:     cfg.BBRefURL,
		RequestDelay: cfg.RequestDelay,
		UseBrowser:   cfg.UseBrowser,
	})
}

// app is the state shared by every subcommand
type app struct {
	configPath   string
	season       string
	noStore      bool
	newCollector CollectorFactory

	cfg      config.Config
	salaries *service.SalaryService
	cleanup  []func()
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	deps := service.Dependencies{TTL: cfg.CacheTTL}
	if !a.noStore {
		db, err := store.NewDatabase(cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		a.cleanup = append(a.cleanup, func() { db.Close() })
		if err := db.RunMigrations(ctx); err != nil {
			return err
		}
		deps.Store = repository.NewSalaryRepository(db)
	}

	collector, closeCollector := a.newCollector(cfg)
	a.cleanup = append(a.cleanup, closeCollector)
	a.salaries = service.NewSalaryService(collector, deps)
	return nil
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

func (a *app) currentSeason() (salary.Season, error) {
	if a.season == "" {
		return a.cfg.CurrentSeason, nil
	}
	season := salary.Season(a.season)
	if !season.Valid() {
		return "", fmt.Errorf("invalid season %q, expected a year like 2025", a.season)
	}
	return season, nil
}

// NewRootCmd builds the command tree
func NewRootCmd(newCollector CollectorFactory) *cobra.Command {
	if newCollector == nil {
		newCollector = defaultCollector
	}
	a := &app{newCollector: newCollector}

	rootCmd := &cobra.Command{
		Use:           "plutus-cli",
		Short:         "plutus-cli scrapes, summarizes and exports NBA player salaries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "plutus.json5", "path to a JSON5 config file")
	flags.StringVar(&a.season, "season", "", "season start year (default: current season)")
	flags.BoolVar(&a.noStore, "no-store", false, "skip the database and always scrape")

	rootCmd.AddCommand(
		newScrapeCmd(a),
		newSummaryCmd(a),
		newTopCmd(a),
		newSearchCmd(a),
		newExportCmd(a),
	)
	return rootCmd
}

func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		log.SetFlags(0)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
