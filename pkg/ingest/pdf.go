package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// parsePDF extracts the plain text of every page. limit bounds both the
// decompressed size of the page content streams and the extracted text, so
// a small compressed upload cannot expand past the reader's size limit.
func parsePDF(name string, data []byte, limit int64) (text string, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return "", readError(name, "file is not a PDF document", nil)
	}

	// The decoder panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", readError(name, "malformed PDF", fmt.Errorf("%v", r))
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", readError(name, "malformed PDF", err)
	}

	tooLarge := func() (string, error) {
		return "", readError(name, fmt.Sprintf("decompressed content exceeds the %d byte limit", limit), nil)
	}

	var out strings.Builder
	budget := limit
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}

		n, err := contentSize(page.V.Key("Contents"), budget)
		if err != nil {
			return "", readError(name, "malformed PDF content stream", err)
		}
		if n > budget {
			return tooLarge()
		}
		budget -= n

		s, err := page.GetPlainText(nil)
		if err != nil {
			return "", readError(name, "malformed PDF content stream", err)
		}
		if int64(out.Len()+len(s)) > limit {
			return tooLarge()
		}
		out.WriteString(s)
		out.WriteByte('\n')
	}

	text = strings.TrimSpace(collapseBlankLines(out.String()))
	if text == "" {
		return "", readError(name, "no extractable text found in PDF", nil)
	}
	return text, nil
}

// contentSize returns the decompressed size of a page's content, reading at
// most budget+1 bytes.
func contentSize(v pdf.Value, budget int64) (int64, error) {
	switch v.Kind() {
	case pdf.Stream:
		rc := v.Reader()
		defer rc.Close()
		return io.Copy(io.Discard, io.LimitReader(rc, budget+1))
	case pdf.Array:
		var total int64
		for i := 0; i < v.Len(); i++ {
			n, err := contentSize(v.Index(i), budget-total)
			total += n
			if err != nil || total > budget {
				return total, err
			}
		}
		return total, nil
	}
	return 0, nil
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimRight(l, " \t\r")
		if l == "" && len(out) > 0 && out[len(out)-1] == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
