// Package commands implements the CLI commands for rosterx.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/rosterx/internal/logger"
	"github.com/jmylchreest/rosterx/internal/output"
	"github.com/jmylchreest/rosterx/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rosterx",
	Short: "Extract task records from exported roster tables",
	Long: `Rosterx reads a task table exported as HTML, finds the rows that
name an attending physician, and writes one record per row with the
clinician, date, hours and team composition.

Examples:
  # Convert an export to CSV
  rosterx convert export.html roster.csv

  # Prompt for the input and output paths
  rosterx convert

  # Write JSON Lines instead
  rosterx convert export.html roster.jsonl --format jsonl

  # Extract from text that was already rendered
  cat export.txt | rosterx extract`,
	Version: version.String(),
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.Init(logger.Options{
			Debug:  viper.GetBool("debug"),
			Quiet:  viper.GetBool("quiet"),
			Format: viper.GetString("log_format"),
			Output: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.rosterx.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only report errors")
	rootCmd.PersistentFlags().String("log-format", logger.FormatText, "log format: text, json")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".rosterx")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. ROSTERX_MAX_INPUT_SIZE
	viper.SetEnvPrefix("ROSTERX")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// formatUsage describes the --format flag.
func formatUsage() string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return "output format: " + strings.Join(names, ", ")
}

// logInfo prints a message for the user to stderr (unless quiet mode).
func logInfo(cmd *cobra.Command, format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
