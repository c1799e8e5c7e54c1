package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts the selectable text of a PDF page by page. Rows are
// reconstructed top-to-bottom so the line layout survives (the name
// heuristic reads the first lines of the document); pages are joined with a
// newline. A document with no text layer returns "" without error so the
// caller can fall back to OCR.
//
// The pdf library panics on some malformed documents, so the reader setup
// and each page walk run under recover.
func PDFText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
		}
	}()

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", 0, nil
	}

	total := 0
	func() {
		defer func() { _ = recover() }()
		total = reader.NumPage()
	}()
	if total <= 0 {
		return "", 0, nil
	}

	var b strings.Builder
	for i := 1; i <= total; i++ {
		func() {
			defer func() { _ = recover() }()
			page := reader.Page(i)
			if page.V.IsNull() {
				return
			}
			pageText := pageTextByRow(page)
			if pageText == "" {
				return
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(pageText)
		}()
	}

	return b.String(), total, nil
}

// pageTextByRow rebuilds one line of output per visual row. Falls back to
// the flat page text when row extraction fails.
func pageTextByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		flat, ferr := page.GetPlainText(nil)
		if ferr != nil {
			return ""
		}
		return strings.TrimSpace(flat)
	}

	var b strings.Builder
	for _, row := range rows {
		var line strings.Builder
		for _, word := range row.Content {
			if line.Len() > 0 {
				line.WriteString(" ")
			}
			line.WriteString(word.S)
		}
		trimmed := strings.TrimSpace(line.String())
		if trimmed == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(trimmed)
	}
	return b.String()
}
