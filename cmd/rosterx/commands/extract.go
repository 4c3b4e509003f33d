package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/rosterx/internal/config"
	"github.com/jmylchreest/rosterx/internal/convert"
	"github.com/jmylchreest/rosterx/internal/logger"
	"github.com/jmylchreest/rosterx/internal/output"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print records from rendered table text",
	Long: `Extract reads the text rendering of a task table from a file, or
stdin when no file is given, and prints the records to stdout.

Examples:
  rosterx extract export.txt
  cat export.txt | rosterx extract --format jsonl
  rosterx extract export.html --html`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	flags.StringP("format", "f", string(output.FormatCSV), formatUsage())
	flags.String("delimiter", "", "CSV field delimiter (default \",\")")
	flags.Bool("html", false, "render the input as HTML first")
	flags.String("max-input-size", config.DefaultMaxInputSize, "max input size (e.g., 50MB, 0=unlimited)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	asHTML, _ := cmd.Flags().GetBool("html")
	maxSize, _ := cmd.Flags().GetString("max-input-size")
	delimiter, _ := cmd.Flags().GetString("delimiter")

	cfg := config.Config{Format: output.Format(format), Renderer: "noop", MaxInputSize: maxSize, Delimiter: delimiter}
	if asHTML {
		cfg.Renderer = "table"
	}
	conv, err := convert.New(cfg)
	if err != nil {
		logger.Error("invalid options", "error", err)
		return err
	}

	var src io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			logger.Error("failed to open input", "path", args[0], "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	stats, err := conv.Convert(src, cmd.OutOrStdout())
	if err != nil {
		logger.Error("extraction failed", "error", err)
		return err
	}
	logger.Info("extraction complete", "records", stats.Records, "malformed", stats.Malformed)
	return nil
}
