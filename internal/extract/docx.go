package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	documentPart        = "word/document.xml"
	markupCompatibility = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

var wordNamespaces = map[string]bool{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main": true,
	"http://purl.oclc.org/ooxml/wordprocessingml/main":             true,
}

// extractDOCX writes each body paragraph's text followed by a newline, in document order.
// Text inside text boxes and shapes is left out.
func extractDOCX(payload []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("docx archive has no %s", documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer rc.Close()

	return paragraphsText(rc)
}

func paragraphsText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out    strings.Builder
		paras  []*strings.Builder
		inText int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			// Fallback repeats the Choice content for older readers
			if t.Name.Space == markupCompatibility && t.Name.Local == "Fallback" {
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("failed to parse %s: %w", documentPart, err)
				}
				continue
			}
			if !wordNamespaces[t.Name.Space] {
				continue
			}
			switch t.Name.Local {
			case "txbxContent":
				// text boxes and shapes are not part of the body text
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("failed to parse %s: %w", documentPart, err)
				}
			case "p":
				paras = append(paras, &strings.Builder{})
			case "t":
				inText++
			case "tab":
				if len(paras) > 0 {
					paras[len(paras)-1].WriteByte('\t')
				}
			case "br", "cr":
				if len(paras) > 0 {
					paras[len(paras)-1].WriteByte('\n')
				}
			}
		case xml.EndElement:
			if !wordNamespaces[t.Name.Space] {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(paras) == 0 {
					continue
				}
				p := paras[len(paras)-1]
				paras = paras[:len(paras)-1]
				out.WriteString(p.String())
				out.WriteByte('\n')
			case "t":
				if inText > 0 {
					inText--
				}
			}
		case xml.CharData:
			if inText > 0 && len(paras) > 0 {
				paras[len(paras)-1].Write(t)
			}
		}
	}

	return out.String(), nil
}
