package render

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/rosterx/pkg/extract"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// taskPrefix opens the first cell of a task row.
const taskPrefix = "Task:"

// TableTextRenderer renders HTML as plain text with pipe-delimited tables.
type TableTextRenderer struct{}

// NewTableText creates the default HTML renderer.
func NewTableText() *TableTextRenderer {
	return &TableTextRenderer{}
}

// Name returns the renderer type.
func (r *TableTextRenderer) Name() string {
	return "table"
}

// Render parses doc and returns its text rendering.
func (r *TableTextRenderer) Render(doc string) (string, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", &ConversionError{Renderer: r.Name(), Err: err}
	}

	root := d.Find("body")
	if root.Length() == 0 {
		root = d.Selection
	}

	var sb strings.Builder
	r.formatSelection(&sb, root, 0)
	return tidy(sb.String()), nil
}

// formatSelection writes the children of sel. depth counts enclosing table
// cells.
func (r *TableTextRenderer) formatSelection(sb *strings.Builder, sel *goquery.Selection, depth int) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]

		switch node.Type {
		case html.TextNode:
			sb.WriteString(whitespaceRun.ReplaceAllString(node.Data, " "))
		case html.ElementNode:
			r.formatElement(sb, s, goquery.NodeName(s), depth)
		}
	})
}

func (r *TableTextRenderer) formatElement(sb *strings.Builder, s *goquery.Selection, tag string, depth int) {
	switch tag {
	case "br":
		sb.WriteString("\n")

	case "p", "div", "section", "article", "main", "header", "footer", "figure", "figcaption",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "dl", "dt", "dd",
		"blockquote", "pre", "caption", "form", "hr":
		ensureNewline(sb)
		r.formatSelection(sb, s, depth)
		ensureNewline(sb)

	case "table":
		r.formatTable(sb, s, depth)

	case "script", "style", "noscript", "head", "title", "template", "svg", "iframe":

	default:
		r.formatSelection(sb, s, depth)
	}
}

// formatTable writes one "| a | b" line group per row. Rows of a top-level
// table are each closed with the row separator.
func (r *TableTextRenderer) formatTable(sb *strings.Builder, table *goquery.Selection, depth int) {
	ensureNewline(sb)

	tableRows(table).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td, th")
		if cells.Length() == 0 {
			return
		}

		if layoutRow(cells) {
			cells.Each(func(_ int, cell *goquery.Selection) {
				ensureNewline(sb)
				r.formatSelection(sb, cell, depth)
				ensureNewline(sb)
			})
			return
		}

		sb.WriteString("|")
		cells.Each(func(i int, cell *goquery.Selection) {
			if i > 0 {
				sb.WriteString(" |")
			}
			var cb strings.Builder
			r.formatSelection(&cb, cell, depth+1)
			if text := strings.TrimSpace(cb.String()); text != "" {
				sb.WriteString(" ")
				sb.WriteString(text)
			}
		})
		sb.WriteString("\n")

		if depth == 0 {
			sb.WriteString(extract.RowSeparator)
			sb.WriteString("\n")
		}
	})
}

// layoutRow reports whether a row only arranges other tables on the page.
// Its cells render as blocks, so tables inside them keep their own rows and
// separators. A row whose first cell starts a task is never a layout row.
func layoutRow(cells *goquery.Selection) bool {
	if cells.Find("table").Length() == 0 {
		return false
	}
	own := cells.First().Clone()
	own.Find("table").Remove()
	return !strings.HasPrefix(strings.TrimSpace(own.Text()), taskPrefix)
}

// tableRows returns the rows owned by table, excluding rows of nested tables.
func tableRows(table *goquery.Selection) *goquery.Selection {
	rows := table.ChildrenFiltered("tr")
	table.ChildrenFiltered("thead, tbody, tfoot").Each(func(_ int, group *goquery.Selection) {
		rows = rows.AddSelection(group.ChildrenFiltered("tr"))
	})
	return rows
}

func ensureNewline(sb *strings.Builder) {
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
}

// tidy trims trailing spaces and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			line = ""
		} else {
			blank = 0
		}
		out = append(out, line)
	}

	text := strings.TrimSpace(strings.Join(out, "\n"))
	if text == "" {
		return ""
	}
	return text + "\n"
}
