package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/rosterx/internal/config"
	"github.com/jmylchreest/rosterx/internal/output"
	"github.com/jmylchreest/rosterx/pkg/extract"
	"github.com/jmylchreest/rosterx/pkg/render"
)

const wantCSV = "Name,Date,Hours,Tracking,Dept,TeamSize,NumberPhysicians,Attending,APRN,NPPN,PGY,Hospitalist,Interaction,Comments\n" +
	"Jane Doe,01/05/2023,2.5,TRK123,Rounds,3,2,Dr. Smith,,,,1,,\"seen, stable\"\n" +
	"Ann Lee,03/03/2023,1,T2,Surgery,2,,Dr B,2,,,,,\n"

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "roster.html"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return data
}

func TestConvert_HTMLToCSV(t *testing.T) {
	c := &Converter{Renderer: render.NewTableText(), Format: output.FormatCSV}

	var buf bytes.Buffer
	stats, err := c.Convert(bytes.NewReader(loadFixture(t)), &buf)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if buf.String() != wantCSV {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), wantCSV)
	}

	want := extract.Stats{Chunks: 4, Irrelevant: 1, Malformed: 1, Records: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestConvert_PreRenderedText(t *testing.T) {
	text := "| Task: Rounds | TRK9 > w | 1 | exp_Jo Kim(jk)_Jan 5, 2023 3:45:00 PM EST <Attending>Dr. A</Attending>\n---|---\n"
	c := &Converter{Renderer: render.NewNoop(), Format: output.FormatJSONL}

	var buf bytes.Buffer
	stats, err := c.Convert(strings.NewReader(text), &buf)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if stats.Records != 1 {
		t.Fatalf("Records = %d, want 1", stats.Records)
	}
	if !strings.Contains(buf.String(), `"Name":"Jo Kim"`) || !strings.Contains(buf.String(), `"Attending":"Dr. A"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestConvert_NoRecords(t *testing.T) {
	c := &Converter{Renderer: render.NewTableText(), Format: output.FormatCSV}

	var buf bytes.Buffer
	if _, err := c.Convert(strings.NewReader("<p>nothing here</p>"), &buf); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestConvert_Limit(t *testing.T) {
	data := loadFixture(t)

	t.Run("over limit", func(t *testing.T) {
		c := &Converter{Renderer: render.NewTableText(), Format: output.FormatCSV, Limit: 10}
		var buf bytes.Buffer
		_, err := c.Convert(bytes.NewReader(data), &buf)
		if !errors.Is(err, ErrInputTooLarge) {
			t.Fatalf("Convert() error = %v, want ErrInputTooLarge", err)
		}
		if buf.Len() != 0 {
			t.Errorf("nothing should be written, got %q", buf.String())
		}
	})

	t.Run("exactly at limit", func(t *testing.T) {
		c := &Converter{Renderer: render.NewTableText(), Format: output.FormatCSV, Limit: uint64(len(data))}
		if _, err := c.Convert(bytes.NewReader(data), &bytes.Buffer{}); err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
	})
}

func TestConvert_DeclaredCharset(t *testing.T) {
	doc := "<html><head><meta charset=\"windows-1252\"></head><body><table>" +
		"<tr><td>Task: Rounds</td><td>T1 &gt; a</td><td>1</td>" +
		"<td>exp_Jos\xe9 Ruiz(jr)_Jan 5, 2023 3:45:00 PM EST</td>" +
		"<td>&lt;Attending&gt;Dr. A&lt;/Attending&gt;</td></tr></table></body></html>"

	c := &Converter{Renderer: render.NewTableText(), Format: output.FormatJSONL, DetectCharset: true}
	var buf bytes.Buffer
	if _, err := c.Convert(strings.NewReader(doc), &buf); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"Name":"José Ruiz"`) {
		t.Errorf("output = %s", buf.String())
	}
}

type failingRenderer struct{}

func (failingRenderer) Name() string { return "failing" }

func (failingRenderer) Render(string) (string, error) {
	return "", &render.ConversionError{Renderer: "failing", Err: errors.New("boom")}
}

func TestConvert_RenderError(t *testing.T) {
	c := &Converter{Renderer: failingRenderer{}, Format: output.FormatCSV}

	var buf bytes.Buffer
	_, err := c.Convert(strings.NewReader("<table></table>"), &buf)

	var convErr *render.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Convert() error = %v, want *render.ConversionError", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on render failure, got %q", buf.String())
	}
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer = "noop"
	cfg.MaxInputSize = "1KB"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Renderer.Name() != "noop" || c.Limit != 1000 || c.Format != output.FormatCSV || c.DetectCharset {
		t.Errorf("New() = %+v", c)
	}

	cfg.Renderer = "table"
	if c, err = New(cfg); err != nil || !c.DetectCharset {
		t.Errorf("New(table) = %+v, %v", c, err)
	}

	cfg.Renderer = "markdown"
	if _, err := New(cfg); err == nil {
		t.Error("expected error for unknown renderer")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "roster.html")
	if err := os.WriteFile(in, loadFixture(t), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.InputPath = in
	cfg.OutputPath = filepath.Join(dir, "out", "roster.csv")
	cfg.CRLF = true

	cfg, err := config.Prepare(cfg)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stats, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Records != 2 {
		t.Errorf("Records = %d, want 2", stats.Records)
	}

	got, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if want := strings.ReplaceAll(wantCSV, "\n", "\r\n"); string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNew_Delimiter(t *testing.T) {
	cfg := config.Default()
	cfg.Delimiter = ";"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var buf bytes.Buffer
	if _, err := c.Convert(bytes.NewReader(loadFixture(t)), &buf); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := "Jane Doe;01/05/2023;2.5;TRK123;Rounds;3;2;Dr. Smith;;;;1;;seen, stable\n"
	if lines := strings.Split(buf.String(), "\n"); len(lines) < 2 || lines[1]+"\n" != want {
		t.Errorf("output = %q, want second line %q", buf.String(), want)
	}
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.InputPath = filepath.Join(dir, "absent.html")
	cfg.OutputPath = filepath.Join(dir, "out.csv")

	if _, err := Run(cfg); err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, err := os.Stat(cfg.OutputPath); err == nil {
		t.Error("output should not be created when input cannot be opened")
	}
}
