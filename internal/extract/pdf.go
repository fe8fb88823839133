package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the plain text of every page in page order.
// A failing page fails the whole document.
func extractPDF(payload []byte, separator string) (text string, err error) {
	// the parser panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	n := rdr.NumPage()
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(separator)
		}

		pg := rdr.Page(i)
		if pg.V.IsNull() {
			continue
		}

		txt, err := pg.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		b.WriteString(txt)
	}

	return b.String(), nil
}
