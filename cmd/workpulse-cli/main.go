package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"workpulse/internal/backend"
	"workpulse/internal/config"
	"workpulse/internal/core"
	"workpulse/internal/ledger"
)

// app carries the wired use cases for the command handlers.
type app struct {
	ledger     *ledger.Ledger
	categories *ledger.Categories
	repos      *backend.Result
	cfg        *config.Config
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if err := setupCommands().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context) (*app, func(), error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	factory := backend.NewFactory(slog.Default())
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialize backend: %w", err)
	}

	cleanup := func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}

	return &app{
		ledger:     ledger.NewLedger(result.Activities),
		categories: ledger.NewCategories(result.Categories),
		repos:      result,
		cfg:        cfg,
	}, cleanup, nil
}

func setupCommands() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "workpulse",
		Short:         "Record activities and aggregate time reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(categoriesCmd())

	return rootCmd
}

func importCmd() *cobra.Command {
	var (
		year      int
		replace   string
		aliasFile string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import activities from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			mode, err := ledger.ParseReplaceMode(replace)
			if err != nil {
				return err
			}

			if year == 0 {
				year = a.cfg.ImportYear
			}
			if aliasFile == "" {
				aliasFile = a.cfg.CategoryAliasFile
			}
			aliases, err := config.LoadCategoryAliases(aliasFile)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			importer := ledger.NewCSVImporter(a.repos.Categories, aliases)
			result, err := a.ledger.Import(cmd.Context(), importer, file, year, mode)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d activities (deleted %d)\n", result.Imported, result.Deleted)
			if result.Imported > 0 {
				fmt.Printf("Date span: %s .. %s\n", result.From, result.To)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year to complete day.month. dates with (default: IMPORT_YEAR)")
	cmd.Flags().StringVar(&replace, "replace", "none", "replace mode: none, all or import-date-range")
	cmd.Flags().StringVar(&aliasFile, "aliases", "", "JSON file mapping raw category labels to canonical names")

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print aggregated time reports",
	}

	daily := &cobra.Command{
		Use:   "daily [date]",
		Short: "Total time booked on a single date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			date, err := core.ParseDate(args[0])
			if err != nil {
				return err
			}

			report, err := a.ledger.DailyReport(cmd.Context(), date)
			if err != nil {
				return err
			}

			names, err := categoryNames(cmd.Context(), a)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, activity := range report.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					formatDuration(activity.Duration()),
					names[activity.CategoryID],
					activity.Task)
			}
			fmt.Fprintf(w, "%s\ttotal\t\n", formatDuration(report.TotalDuration))
			return w.Flush()
		},
	}

	weekly := &cobra.Command{
		Use:   "weekly [week-start]",
		Short: "Per-category time for the week starting at the given date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			weekStart, err := core.ParseDate(args[0])
			if err != nil {
				return err
			}

			report, err := a.ledger.WeeklyReport(cmd.Context(), weekStart)
			if err != nil {
				return err
			}

			names, err := categoryNames(cmd.Context(), a)
			if err != nil {
				return err
			}

			fmt.Printf("Week %s .. %s\n", report.WeekStart, report.WeekEnd)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for id, duration := range report.DurationPerCategory {
				fmt.Fprintf(w, "%s\t%s\n", formatDuration(duration), names[id])
			}
			fmt.Fprintf(w, "%s\ttotal\n", formatDuration(report.TotalDuration))
			return w.Flush()
		},
	}

	cmd.AddCommand(daily)
	cmd.AddCommand(weekly)
	return cmd
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage activity categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			categories, err := a.categories.Categories(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
			}
			return w.Flush()
		},
	}

	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			category, err := a.categories.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created category %s (%s)\n", category.Name, category.ID)
			return nil
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(add)
	return cmd
}

func categoryNames(ctx context.Context, a *app) (map[core.CategoryID]string, error) {
	categories, err := a.categories.Categories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[core.CategoryID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
