// Package main provides the CLI entry point for gridcalc.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ukaji3/gridcalc-go/internal/config"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/sheet"
)

var (
	configPath string
	logLevel   string
	sheetName  string
	pretty     bool

	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridcalc",
		Short: "Evaluate spreadsheet grids",
		Long: `gridcalc evaluates arithmetic spreadsheet grids loaded from edit scripts
or xlsx workbooks and outputs JSON.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		newEvalCmd(),
		newRecalcCmd(),
		newWindowCmd(),
		newLabelCmd(),
		newAddressCmd(),
		newDepsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
	return nil
}

// addInputFlags registers the flags shared by commands reading a grid.
func addInputFlags(fs *pflag.FlagSet) {
	fs.StringVar(&sheetName, "sheet", "", "Sheet to read from an xlsx input (default: first sheet)")
	fs.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// loadGrid builds a grid from an edit script or an xlsx workbook. An empty
// path yields an empty grid.
func loadGrid(path string) (*gridcalc.Grid, sheet.Report, error) {
	g, err := gridcalc.New(cfg.GridOptions(logger))
	if err != nil {
		return nil, sheet.Report{}, err
	}
	if path == "" {
		return g, sheet.Report{Converged: true}, nil
	}

	if isWorkbook(path) {
		rep, warnings, err := g.LoadWorkbook(path, sheetName)
		if err != nil {
			return nil, rep, fmt.Errorf("load workbook: %w", err)
		}
		if len(warnings) > 0 {
			logger.Info().Int("count", len(warnings)).Msg("cells use unsupported formula features")
		}
		return g, rep, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sheet.Report{}, fmt.Errorf("%w: %s", gridcalc.ErrFileNotFound, path)
		}
		return nil, sheet.Report{}, err
	}
	defer f.Close()

	rep, err := g.ApplyScript(f)
	if err != nil {
		return nil, rep, fmt.Errorf("apply %s: %w", path, err)
	}
	return g, rep, nil
}

func writeOutput(cmd *cobra.Command, data []byte, path string) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
