package ocr

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// PDFReader extracts text in-process with ledongthuc/pdf. Each text row of a
// page becomes one line, so table rows stay on a single line.
type PDFReader struct {
	// gap is the horizontal distance, as a fraction of the font size, above
	// which two glyph runs are separated by a space.
	gap float64
}

// NewPDFReader returns the pure Go extractor.
func NewPDFReader() *PDFReader {
	return &PDFReader{gap: 0.2}
}

// ExtractText returns the text of every page, pages separated by a blank line.
func (p *PDFReader) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", eris.Wrap(ErrUnreadable, "empty document")
	}
	// The reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", eris.Wrapf(ErrUnreadable, "pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrapf(ErrUnreadable, "open pdf: %v", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", eris.Wrapf(ErrUnreadable, "page %d: %v", i, err)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.pageText(rows))
	}
	return sb.String(), nil
}

// pageText renders rows top to bottom.
func (p *PDFReader) pageText(rows pdf.Rows) string {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := p.rowText(row.Content); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (p *PDFReader) rowText(content pdf.TextHorizontal) string {
	sort.SliceStable(content, func(i, j int) bool { return content[i].X < content[j].X })
	var sb strings.Builder
	end := 0.0
	for i, t := range content {
		if i > 0 && t.X-end > p.gap*t.FontSize {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		end = t.X + t.W
	}
	return strings.TrimSpace(sb.String())
}
