/*
main.go - Report CLI

PURPOSE:
  Prints dashboards from a workforce database as terminal tables and
  exports job-entry reports to parquet for offline analysis.

COMMANDS:
  dashboards                    List dashboard names
  dashboard <name>              Print one dashboard
  export entries --out FILE     Write recomputed job entries to parquet

FILTERS (dashboard, export):
  --worker, --job, --from YYYY-MM-DD, --to YYYY-MM-DD

EXAMPLES:
  report dashboard attendance --db ./data/workforce.db
  report export entries --from 2025-03-01 --out march.parquet

SEE ALSO:
  - report/: Table rendering and parquet export
  - api/dashboards.go: DashboardService
*/
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/api"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/report"
	"github.com/warp/workforce-engine/store/sqlite"
)

var (
	configFile string
	noColor    bool
	filterArgs struct {
		worker, job, from, to string
	}
	outPath string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:           "report",
	Short:         "Print workforce dashboards and export job entries",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		v = config.NewViper(configFile)
		return v.BindPFlag("database.path", cmd.Root().PersistentFlags().Lookup("db"))
	},
}

var dashboardsCmd = &cobra.Command{
	Use:   "dashboards",
	Short: "List dashboard names",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range analytics.Dashboards {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

var dashboardCmd = &cobra.Command{
	Use:       "dashboard <name>",
	Short:     "Print one dashboard as tables",
	Args:      cobra.ExactArgs(1),
	ValidArgs: analytics.Dashboards,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeStore, err := openService()
		if err != nil {
			return err
		}
		defer closeStore()

		filter, err := parseFilter()
		if err != nil {
			return err
		}
		res := svc.Result(cmd.Context(), args[0], filter)
		if !res.OK() {
			return fmt.Errorf("%s", res.Message)
		}
		return report.WriteDashboard(cmd.OutOrStdout(), res.Value, report.Options{UseColors: !noColor && !color.NoColor})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to files",
}

var exportEntriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Write recomputed job entries to a parquet file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, closeStore, err := openService()
		if err != nil {
			return err
		}
		defer closeStore()

		filter, err := parseFilter()
		if err != nil {
			return err
		}
		entries, err := svc.JobEntries(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if err := report.WriteEntriesFile(outPath, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(entries), outPath)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./workforce.yaml)")
	pf.String("db", "./data/workforce.db", "SQLite database path")
	pf.BoolVar(&noColor, "no-color", false, "disable coloured output")

	for _, cmd := range []*cobra.Command{dashboardCmd, exportEntriesCmd} {
		cmd.Flags().StringVar(&filterArgs.worker, "worker", "", "only this worker ID")
		cmd.Flags().StringVar(&filterArgs.job, "job", "", "only this job ID")
		cmd.Flags().StringVar(&filterArgs.from, "from", "", "first date, YYYY-MM-DD")
		cmd.Flags().StringVar(&filterArgs.to, "to", "", "last date, YYYY-MM-DD")
	}
	exportEntriesCmd.Flags().StringVarP(&outPath, "out", "o", "entries.parquet", "output parquet file")

	exportCmd.AddCommand(exportEntriesCmd)
	rootCmd.AddCommand(dashboardsCmd, dashboardCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openService() (*api.DashboardService, func(), error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, nil, err
	}
	analyticsCfg, err := cfg.AnalyticsConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return api.NewDashboardService(store, store, analyticsCfg, nil), func() { _ = store.Close() }, nil
}

func parseFilter() (generic.RecordFilter, error) {
	filter := generic.RecordFilter{
		WorkerID: generic.WorkerID(filterArgs.worker),
		JobID:    generic.JobID(filterArgs.job),
	}
	for _, d := range []struct {
		flag string
		raw  string
		dst  **generic.TimePoint
	}{
		{"from", filterArgs.from, &filter.From},
		{"to", filterArgs.to, &filter.To},
	} {
		if d.raw == "" {
			continue
		}
		tp, ok := generic.ParseDate(d.raw)
		if !ok {
			return filter, fmt.Errorf("invalid --%s date %q", d.flag, d.raw)
		}
		*d.dst = &tp
	}
	return filter, nil
}
