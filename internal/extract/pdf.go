package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

func (e *Extractor) extractPDF(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDF, err)
	}
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			e.logger.Debug("skipping unreadable page", zap.Int("page", n+1), zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(text))
	}

	meta := make(map[string]string)
	for _, k := range []string{"title", "author", "subject"} {
		if v := doc.Metadata()[k]; v != "" {
			meta[k] = v
		}
	}

	return &Document{
		Kind:     PDF,
		Text:     sb.String(),
		Pages:    e.pageCount(data, doc.NumPage()),
		Metadata: meta,
	}, nil
}

// pageCount asks pdfcpu for the page tree size and falls back to the count
// the renderer saw when the file does not validate.
func (e *Extractor) pageCount(data []byte, fallback int) int {
	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil || n <= 0 {
		e.logger.Debug("pdfcpu page count unavailable", zap.Error(err))
		return fallback
	}
	return n
}
