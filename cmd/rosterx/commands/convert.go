package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/rosterx/internal/config"
	"github.com/jmylchreest/rosterx/internal/convert"
	"github.com/jmylchreest/rosterx/internal/logger"
	"github.com/jmylchreest/rosterx/internal/output"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input.html output.csv]",
	Short: "Convert an exported task table to records",
	Long: `Convert reads an HTML task export and writes one record per task
row that names an attending physician.

With no arguments the input and output paths are read from stdin, and
asked for again until they pass the checks.

Examples:
  rosterx convert export.html roster.csv
  rosterx convert export.html out/roster.yaml --format yaml
  rosterx convert export.txt roster.csv --text`,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected an input and an output path, got %d argument(s)", len(args))
		}
		return nil
	},
	SilenceUsage: true,
	RunE:         runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.StringP("format", "f", string(output.FormatCSV), formatUsage())
	flags.String("max-input-size", config.DefaultMaxInputSize, "max input size (e.g., 50MB, 0=unlimited)")
	flags.Bool("text", false, "input is already rendered text, not HTML")
	flags.Bool("force", false, "skip the output write lock check")
	flags.Bool("crlf", false, "end CSV lines with \\r\\n")
	flags.String("delimiter", "", "CSV field delimiter (default \",\")")

	// Bind to viper
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("max_input_size", flags.Lookup("max-input-size"))
	_ = viper.BindPFlag("force", flags.Lookup("force"))
	_ = viper.BindPFlag("crlf", flags.Lookup("crlf"))
	_ = viper.BindPFlag("delimiter", flags.Lookup("delimiter"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger.Debug("convert command starting")

	cfg, err := loadConfig(cmd)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	if len(args) == 2 {
		cfg.InputPath, cfg.OutputPath = args[0], args[1]
		cfg, err = config.Prepare(cfg)
	} else {
		cfg, err = promptPaths(cmd.InOrStdin(), cmd.ErrOrStderr(), cfg)
	}
	if err != nil {
		logger.Error("invalid paths", "error", err)
		return err
	}

	logger.Info("processing data",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"format", cfg.Format,
		"renderer", cfg.Renderer)

	start := time.Now()
	stats, err := convert.Run(cfg)
	if err != nil {
		logger.Error("conversion failed", "error", err)
		return err
	}

	logger.Info("conversion complete",
		"records", stats.Records,
		"chunks", stats.Chunks,
		"irrelevant", stats.Irrelevant,
		"malformed", stats.Malformed,
		"date_failures", stats.DateFailures,
		"duration", time.Since(start).Round(time.Millisecond))
	logInfo(cmd, "File written to:\n  %s", cfg.OutputPath)
	return nil
}

// loadConfig merges defaults, the config file, environment and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if text, _ := cmd.Flags().GetBool("text"); text {
		cfg.Renderer = "noop"
	}
	return cfg, nil
}

// promptPaths asks for the input and output paths until they pass
// config.Prepare. Errors other than bad paths, and end of input, stop the
// loop.
func promptPaths(in io.Reader, out io.Writer, base config.Config) (config.Config, error) {
	sc := bufio.NewScanner(in)
	ask := func(prompt string) (string, error) {
		fmt.Fprintln(out, prompt)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		fmt.Fprintln(out)
		return strings.Trim(strings.TrimSpace(sc.Text()), `"'`), nil
	}

	for {
		cfg := base
		var err error
		if cfg.InputPath, err = ask("Please enter the path to the input file:"); err != nil {
			return base, err
		}
		if cfg.OutputPath, err = ask(fmt.Sprintf("Please enter the path to the output %s file:", strings.ToUpper(string(cfg.Format)))); err != nil {
			return base, err
		}

		prepared, err := config.Prepare(cfg)
		if err == nil {
			return prepared, nil
		}
		if !retryable(err) {
			return base, err
		}
		fmt.Fprintf(out, "ERROR: %v\n\nPlease try again.\n\n", err)
	}
}

func retryable(err error) bool {
	var verrs config.ValidationErrors
	return errors.As(err, &verrs) ||
		errors.Is(err, config.ErrInputMissing) ||
		errors.Is(err, config.ErrOutputLocked)
}
