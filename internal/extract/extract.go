// Package extract turns uploaded PDF and DOCX documents into plain text.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Kind is a supported document format.
type Kind string

const (
	PDF  Kind = "pdf"
	DOCX Kind = "docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoText          = errors.New("no text could be extracted from the file")
	ErrPDF             = errors.New("failed to extract text from PDF")
	ErrDOCX            = errors.New("failed to extract text from DOCX")
)

// Document is the result of extracting one upload.
type Document struct {
	Kind     Kind
	Text     string
	Pages    int
	Metadata map[string]string
}

// KindOf identifies the format from the declared MIME type, falling back to
// the file extension when the type is missing or generic.
func KindOf(filename, mimeType string) (Kind, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case MimePDF:
		return PDF, nil
	case MimeDOCX:
		return DOCX, nil
	case "", "application/octet-stream":
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".pdf":
			return PDF, nil
		case ".docx":
			return DOCX, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
}

// MimeType returns the canonical MIME type for k.
func (k Kind) MimeType() string {
	if k == DOCX {
		return MimeDOCX
	}
	return MimePDF
}

// Extractor dispatches documents to the right parser.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract parses data as the format named by filename and mimeType. Empty
// documents yield ErrNoText.
func (e *Extractor) Extract(data []byte, filename, mimeType string) (*Document, error) {
	kind, err := KindOf(filename, mimeType)
	if err != nil {
		return nil, err
	}

	var doc *Document
	switch kind {
	case PDF:
		doc, err = e.extractPDF(data)
	case DOCX:
		doc, err = extractDOCX(data)
	}
	if err != nil {
		e.logger.Warn("text extraction failed",
			zap.String("kind", string(kind)),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrNoText
	}

	e.logger.Debug("extracted text",
		zap.String("kind", string(kind)),
		zap.Int("pages", doc.Pages),
		zap.Int("chars", len(doc.Text)),
	)
	return doc, nil
}
