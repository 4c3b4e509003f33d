// Package config holds the run configuration of the rosterx CLI and the
// checks performed on it before any output is written.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/rosterx/internal/output"
)

// DefaultMaxInputSize bounds how much HTML is read into memory.
const DefaultMaxInputSize = "50MB"

// htmlExtensions are accepted for rendered input.
var htmlExtensions = []string{".html", ".htm"}

// Config describes one conversion run.
type Config struct {
	InputPath    string        `mapstructure:"input" validate:"required"`
	OutputPath   string        `mapstructure:"output" validate:"required"`
	Format       output.Format `mapstructure:"format" validate:"oneof=csv jsonl yaml"`
	Renderer     string        `mapstructure:"renderer" validate:"oneof=table noop"`
	MaxInputSize string        `mapstructure:"max_input_size" validate:"bytesize"`
	Delimiter    string        `mapstructure:"delimiter" validate:"omitempty,len=1"` // CSV only; empty means ","
	CRLF         bool          `mapstructure:"crlf"`
	Force        bool          `mapstructure:"force"` // skip the output lock check
}

// Default returns a Config with defaults applied and no paths.
func Default() Config {
	return Config{
		Format:       output.FormatCSV,
		Renderer:     "table",
		MaxInputSize: DefaultMaxInputSize,
	}
}

// InputLimit returns MaxInputSize in bytes. Zero means unlimited.
func (c Config) InputLimit() (uint64, error) {
	s := strings.TrimSpace(c.MaxInputSize)
	if s == "" || s == "0" {
		return 0, nil
	}
	return humanize.ParseBytes(s)
}

// ValidationError represents a configuration problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every problem found in a Config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" || s == "0" {
			return true
		}
		_, err := humanize.ParseBytes(s)
		return err == nil
	})
	v.RegisterStructValidation(validateExtensions, Config{})
	return v
}

// validateExtensions checks path extensions against the renderer and format.
func validateExtensions(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)

	if c.InputPath != "" && c.Renderer != "noop" {
		if !slices.Contains(htmlExtensions, extension(c.InputPath)) {
			sl.ReportError(c.InputPath, "InputPath", "input", "input_ext", "")
		}
	}

	if c.OutputPath != "" {
		if !slices.Contains(outputExtensions(c.Format), extension(c.OutputPath)) {
			sl.ReportError(c.OutputPath, "OutputPath", "output", "output_ext", string(c.Format))
		}
	}
}

func outputExtensions(f output.Format) []string {
	if f == output.FormatYAML {
		return []string{".yaml", ".yml"}
	}
	return []string{f.Extension()}
}

func extension(path string) string {
	return strings.ToLower(strings.TrimSpace(filepath.Ext(path)))
}

// Validate reports every problem in c.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, e := range err.(validator.ValidationErrors) {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Message: c.formatValidationError(e),
		})
	}
	return errs
}

func (c Config) formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "len":
		return fmt.Sprintf("%q must be a single character", e.Value())
	case "bytesize":
		return fmt.Sprintf("%q is not a size (e.g. 50MB)", e.Value())
	case "input_ext":
		return fmt.Sprintf("input file must be an HTML file, not %s", describeExt(c.InputPath))
	case "output_ext":
		return fmt.Sprintf("output file must be a %s file, not %s", strings.ToUpper(e.Param()), describeExt(c.OutputPath))
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

func describeExt(path string) string {
	ext := strings.TrimPrefix(extension(path), ".")
	if ext == "" {
		return "a file without an extension"
	}
	return "a " + strings.ToUpper(ext) + " file"
}
