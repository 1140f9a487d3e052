// Package cmd provides CLI command implementations
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/LipidKey/pkg/adduct"
	"github.com/ChrisMcGann/LipidKey/pkg/config"
	"github.com/ChrisMcGann/LipidKey/pkg/logging"
)

var (
	// Persistent flags
	configFile string
	logLevel   string
	logFormat  string

	// Resolved configuration, set before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lipidkey",
	Short: "LipidKey - Lipid adduct annotation tool",
	Long: `LipidKey assigns adduct labels such as [M+H]+, [M+Na]+ or [2M-H]- to lipid
features by finding peaks in each co-eluting group whose neutral masses agree.

Configuration is read from an optional TOML file, then LIPIDKEY_* environment
variables (a .env file in the working directory is loaded first), then flags.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Root returns the root command so main can run it with a context
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(adductsCmd)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

// loadConfig resolves defaults, file, environment and flags, in that order
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	applyFlagOverrides(cmd)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logging.Init(level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

// loadTables returns the default adduct tables with any configured custom
// table files substituted
func loadTables() (adduct.Tables, error) {
	tables := adduct.DefaultTables()

	if cfg.Adducts.Positive != "" {
		t, err := loadTableFile(cfg.Adducts.Positive)
		if err != nil {
			return adduct.Tables{}, fmt.Errorf("failed to load positive adducts: %w", err)
		}
		tables.Positive = t
	}
	if cfg.Adducts.Negative != "" {
		t, err := loadTableFile(cfg.Adducts.Negative)
		if err != nil {
			return adduct.Tables{}, fmt.Errorf("failed to load negative adducts: %w", err)
		}
		tables.Negative = t
	}

	return tables, nil
}

// loadTableFile reads an adduct table, choosing the format by extension
func loadTableFile(path string) (*adduct.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	t := adduct.NewTable()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		err = t.LoadFromCSV(f)
	case ".yaml", ".yml":
		err = t.LoadFromYAML(f)
	default:
		return nil, fmt.Errorf("cannot detect adduct table format from extension '%s', use .csv, .yaml or .yml", ext)
	}
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("adduct table %s is empty", path)
	}

	return t, nil
}
