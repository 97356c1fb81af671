// Package cmd provides the CLI commands for transfer-cost.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"transfer-cost/internal/config"
	"transfer-cost/internal/logging"
)

// Version is the CLI version
const Version = "1.0.0"

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "transfer-cost",
		Short: "Calculate property transfer costs",
		Long: `transfer-cost computes the cost of transferring a property: transfer fees,
VAT, transfer duty, stamp duty, the deeds office fee and sundries.

Examples:
  transfer-cost calculate --amount 1200000 --sub-type S --duty-type N --date after
  transfer-cost calculate --amount 450000 --sub-type F --duty-type N --transfer-date 2024-09-01
  transfer-cost export --amount 3000000 --sub-type F --duty-type C --date after --out quote.xlsx
  transfer-cost tables`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile, verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.json or .hcl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newCalculateCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newTablesCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

func initConfig(cfgFile string, verbose bool) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	// Initialize logging
	return logging.Initialize(cfg.Logging)
}

// newVersionCmd prints version information
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "transfer-cost version %s\n", Version)
		},
	}
}

// newConfigCmd manages configuration
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Get().String())
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if strings.EqualFold(filepath.Ext(path), ".hcl") {
				return fmt.Errorf("config init writes JSON; choose a .json path")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	return configCmd
}
