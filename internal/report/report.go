// ABOUTME: Inventory report rendering as a Markdown table or HTML page
// ABOUTME: HTML is produced by converting the Markdown with goldmark's table extension

package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/bookstore/internal/store"
)

// Output formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Options controls what Render writes
type Options struct {
	Format  string        // FormatMarkdown (or "md") or FormatHTML
	Columns []store.Field // defaults to store.AllFields
	Title   string        // heading; defaults to "Inventory"
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Render writes the books as a report in the requested format
func Render(w io.Writer, books []*store.Book, opts Options) error {
	if opts.Title == "" {
		opts.Title = "Inventory"
	}
	if len(opts.Columns) == 0 {
		opts.Columns = store.AllFields
	}

	table := Markdown(books, opts.Title, opts.Columns)

	switch strings.ToLower(opts.Format) {
	case "", FormatMarkdown, "md":
		_, err := io.WriteString(w, table)
		return err
	case FormatHTML:
		var body bytes.Buffer
		if err := md.Convert([]byte(table), &body); err != nil {
			return fmt.Errorf("converting markdown: %w", err)
		}
		_, err := fmt.Fprintf(w, htmlPage, html.EscapeString(opts.Title), body.String())
		return err
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// Markdown builds a GFM table of the selected columns with a total row
func Markdown(books []*store.Book, title string, columns []store.Field) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeCell(title))

	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, f := range columns {
		header[i] = strings.ToUpper(f.String())
		if f == store.FieldID || f == store.FieldQuantity {
			rule[i] = "---:"
		} else {
			rule[i] = "---"
		}
	}
	writeRow(&b, header)
	writeRow(&b, rule)

	total := 0
	for _, book := range books {
		cells := make([]string, len(columns))
		for i, v := range book.Fields(columns...) {
			cells[i] = escapeCell(fmt.Sprint(v))
		}
		writeRow(&b, cells)
		total += book.Quantity
	}

	fmt.Fprintf(&b, "\n%d titles, %d copies in stock.\n", len(books), total)
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

// markdownEscaper backslash-escapes the punctuation Markdown would read as
// markup, so catalog text renders literally. Cell pipes are escaped too.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"!", `\!`,
	"&", `\&`,
	"~", `\~`,
	"|", `\|`,
	"\r\n", " ",
	"\n", " ",
)

// escapeCell keeps free-text titles from breaking the table or turning
// into markup
func escapeCell(s string) string {
	return markdownEscaper.Replace(s)
}
