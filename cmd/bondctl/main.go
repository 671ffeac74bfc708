package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/app"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/database"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/report"
)

var (
	dbPath      string
	portfolioID string

	cfg    *config.Config
	logger *log.Logger
	db     *sql.DB
	svc    *app.App
)

var rootCmd = &cobra.Command{
	Use:           "bondctl",
	Short:         "Bond portfolio tracker command-line interface",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		logger = app.NewLogger(os.Stderr, cfg.Log)

		if db, err = database.Open(cfg.Database.Path); err != nil {
			return err
		}
		version, err := database.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}
		logger.Debug("database ready", "path", cfg.Database.Path, "schema", version)

		svc = app.New(db, cfg, logger)
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Migrations already ran in the root pre-run.
		version, err := database.SchemaVersion(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [flags] <csv_file>",
	Short: "Import a broker CSV statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		owner, _ := cmd.Flags().GetString("owner")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		result, err := svc.Import.ImportCSV(cmd.Context(), data, request.ImportRequest{
			Owner:       owner,
			PortfolioID: portfolioID,
			DryRun:      dryRun,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Summary(cfg.Import.ErrorPreview))
		if result.Failed() {
			return errors.New("import rejected")
		}
		return nil
	},
}

var timeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Print the value-over-time chart data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		freq, _ := cmd.Flags().GetString("freq")
		ts, err := svc.Analytics.ValueTimeseries(cmd.Context(), portfolioID, freq)
		if err != nil {
			return err
		}
		return printJSON(cmd, ts)
	},
}

var allocationCmd = &cobra.Command{
	Use:   "allocation",
	Short: "Print the allocation pie chart data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		groupBy, _ := cmd.Flags().GetString("group-by")
		value, _ := cmd.Flags().GetString("value")
		pie, err := svc.Analytics.Allocation(cmd.Context(), portfolioID, groupBy, value)
		if err != nil {
			return err
		}
		return printJSON(cmd, pie)
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print upcoming bond redemptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		events, err := svc.Analytics.MaturityCalendar(cmd.Context(), portfolioID, time.Now())
		if err != nil {
			return err
		}
		return printJSON(cmd, events)
	},
}

var inflationCmd = &cobra.Command{
	Use:   "inflation",
	Short: "Compare portfolio growth with CPI year over year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		points, err := svc.Analytics.InflationComparison(cmd.Context(), portfolioID)
		if err != nil {
			return err
		}
		return printJSON(cmd, points)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write holdings and ledger to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")

		holdings, err := svc.Portfolio.GetHoldings(cmd.Context(), portfolioID)
		if err != nil {
			return err
		}
		transactions, err := svc.Transaction.GetTransactions(cmd.Context(), portfolioID)
		if err != nil {
			return err
		}
		data, err := report.HoldingsWorkbook(holdings, transactions)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return err
		}
		logger.Info("export written", "file", out, "holdings", len(holdings), "transactions", len(transactions))
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record a valuation snapshot for every portfolio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dateArg, _ := cmd.Flags().GetString("date")
		on := time.Now()
		if dateArg != "" {
			var err error
			if on, err = time.Parse(time.DateOnly, dateArg); err != nil {
				return fmt.Errorf("invalid --date %q: %w", dateArg, err)
			}
		}

		n, err := svc.Snapshot.TakeSnapshot(cmd.Context(), on)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d snapshot rows for %s\n", n, on.Format(time.DateOnly))
		return nil
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requirePortfolio(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringVar(&portfolioID, "portfolio", "", "portfolio UUID")
		_ = c.MarkFlagRequired("portfolio")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides DB_PATH)")

	importCmd.Flags().StringVar(&portfolioID, "portfolio", "", "target portfolio UUID (default: the owner's default portfolio)")
	importCmd.Flags().String("owner", "", "owner whose default portfolio receives the rows")
	importCmd.Flags().Bool("dry-run", false, "validate without writing")

	requirePortfolio(timeseriesCmd, allocationCmd, calendarCmd, inflationCmd, exportCmd)
	timeseriesCmd.Flags().String("freq", "M", "grid frequency: D, W, M or Q")
	allocationCmd.Flags().String("group-by", "bond_type", "column to group by")
	allocationCmd.Flags().String("value", "current_value", "column to sum")
	exportCmd.Flags().String("out", "portfolio.xlsx", "output file")

	snapshotCmd.Flags().String("date", "", "valuation date as YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(migrateCmd, importCmd, timeseriesCmd, allocationCmd, calendarCmd, inflationCmd, exportCmd, snapshotCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
