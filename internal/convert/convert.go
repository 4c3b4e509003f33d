// Package convert wires rendering, extraction and output into a single run.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html/charset"

	"github.com/jmylchreest/rosterx/internal/config"
	"github.com/jmylchreest/rosterx/internal/logger"
	"github.com/jmylchreest/rosterx/internal/output"
	"github.com/jmylchreest/rosterx/pkg/extract"
	"github.com/jmylchreest/rosterx/pkg/render"
)

// ErrInputTooLarge is returned when the input exceeds the configured limit.
var ErrInputTooLarge = errors.New("input exceeds size limit")

// Converter turns one document into rows.
type Converter struct {
	Renderer render.Renderer
	Format   output.Format
	Options  []output.WriterOption

	// Limit caps the input size in bytes. Zero means unlimited.
	Limit uint64

	// DetectCharset decodes the input to UTF-8 using its byte order mark or
	// <meta> charset declaration.
	DetectCharset bool
}

// New builds a Converter from a validated Config.
func New(cfg config.Config) (*Converter, error) {
	r, err := render.ByName(cfg.Renderer)
	if err != nil {
		return nil, err
	}
	limit, err := cfg.InputLimit()
	if err != nil {
		return nil, err
	}
	_, isHTML := r.(*render.TableTextRenderer)

	opts := []output.WriterOption{output.WithCRLF(cfg.CRLF)}
	if d := []rune(cfg.Delimiter); len(d) > 0 {
		opts = append(opts, output.WithDelimiter(d[0]))
	}
	return &Converter{
		Renderer: r,
		Format:   cfg.Format,
		Options:  opts,
		Limit:    limit,

		DetectCharset: isHTML,
	}, nil
}

// Convert reads the whole document from src, renders it, and writes one row
// per extracted record to dst. Rows are written as they are produced, so a
// failure part way leaves the rows written so far in dst.
func (c *Converter) Convert(src io.Reader, dst io.Writer) (extract.Stats, error) {
	doc, err := c.read(src)
	if err != nil {
		return extract.Stats{}, err
	}

	text, err := c.Renderer.Render(doc)
	if err != nil {
		return extract.Stats{}, err
	}
	logger.Debug("rendered input", "renderer", c.Renderer.Name(),
		"input", humanize.Bytes(uint64(len(doc))), "text", humanize.Bytes(uint64(len(text))))

	w, err := output.NewWriter(dst, c.Format, c.Options...)
	if err != nil {
		return extract.Stats{}, err
	}

	columns := extract.Columns()
	if err := w.WriteHeader(columns); err != nil {
		return extract.Stats{}, fmt.Errorf("writing header: %w", err)
	}

	e := extract.New()
	for rec := range e.Records(extract.Lines(text)) {
		if err := w.Write(rec.Row(columns)); err != nil {
			return e.Stats(), fmt.Errorf("writing row: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return e.Stats(), fmt.Errorf("flushing output: %w", err)
	}
	return e.Stats(), nil
}

func (c *Converter) read(src io.Reader) (string, error) {
	if c.Limit > 0 {
		src = io.LimitReader(src, int64(c.Limit)+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	if c.Limit > 0 && uint64(len(data)) > c.Limit {
		return "", fmt.Errorf("%w of %s", ErrInputTooLarge, humanize.Bytes(c.Limit))
	}

	if !c.DetectCharset {
		return string(data), nil
	}

	// Valid UTF-8 is kept unless a byte order mark says otherwise.
	enc, name, certain := charset.DetermineEncoding(data, "")
	if !certain && utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding input as %s: %w", name, err)
	}
	logger.Debug("decoded input", "charset", name)
	return string(decoded), nil
}

// Run converts cfg.InputPath into cfg.OutputPath. cfg should come from
// config.Prepare.
func Run(cfg config.Config) (extract.Stats, error) {
	conv, err := New(cfg)
	if err != nil {
		return extract.Stats{}, err
	}

	in, err := os.Open(cfg.InputPath)
	if err != nil {
		return extract.Stats{}, err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return extract.Stats{}, fmt.Errorf("creating output: %w", err)
	}

	stats, err := conv.Convert(in, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return stats, err
}
