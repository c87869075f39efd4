package ingestion

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/jonathan/review-analyzer/internal/types"
)

// Extractor returns the plain text of one document.
// An empty string with a nil error means the document carried no text.
type Extractor interface {
	ExtractText(ctx context.Context, doc types.Document) (string, error)
}

// Kind is the detected format of a document
type Kind string

// Supported kinds
const (
	KindPDF     Kind = "pdf"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

var pdfMagic = []byte("%PDF-")

// DetectKind infers the format from magic bytes, falling back to the extension.
func DetectKind(doc types.Document) Kind {
	if bytes.HasPrefix(bytes.TrimLeft(doc.Data, "\x00\t\r\n "), pdfMagic) {
		return KindPDF
	}
	switch strings.ToLower(filepath.Ext(doc.Name)) {
	case ".pdf":
		return KindPDF
	case ".txt", ".md", ".text":
		return KindText
	}
	return KindUnknown
}

// DocumentExtractor extracts PDF and plain-text documents.
type DocumentExtractor struct{}

// NewDocumentExtractor creates a DocumentExtractor
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// ExtractText extracts and cleans the text of doc.
func (e *DocumentExtractor) ExtractText(ctx context.Context, doc types.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch DetectKind(doc) {
	case KindPDF:
		text, err := extractPDF(doc.Data)
		if err != nil {
			return "", &CorruptDocumentError{
				Name:    doc.Name,
				Message: "could not process the PDF file, it might be corrupted or protected",
				Cause:   err,
			}
		}
		return CleanText(text), nil
	case KindText:
		return CleanText(string(doc.Data)), nil
	default:
		return "", &CorruptDocumentError{Name: doc.Name, Message: "unsupported document type"}
	}
}
