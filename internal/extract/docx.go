package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// extractDOCX reads the raw text runs of the main document part. Paragraphs
// and breaks become newlines and tabs stay tabs; formatting is dropped.
func extractDOCX(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDOCX, err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrDOCX, docxBody)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDOCX, err)
	}
	defer rc.Close()

	text, err := docxText(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDOCX, err)
	}
	return &Document{Kind: DOCX, Text: text, Metadata: map[string]string{}}, nil
}

func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
