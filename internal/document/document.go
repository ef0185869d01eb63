// Package document turns uploaded files into plain text for the summarizer and extractor.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned for anything that is neither plain text nor PDF
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrInvalidEncoding is returned for a text file that is not valid UTF-8
	ErrInvalidEncoding = errors.New("text file is not valid UTF-8")
)

// Format is a supported input file type
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

// DetectFormat picks the format from the file extension, falling back to the declared content type
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return FormatText, nil
	case ".pdf":
		return FormatPDF, nil
	}

	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			switch mediaType {
			case "text/plain":
				return FormatText, nil
			case "application/pdf":
				return FormatPDF, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// Load returns the text content of an uploaded file
func Load(filename, contentType string, data []byte) (string, error) {
	format, err := DetectFormat(filename, contentType)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatPDF:
		return extractPDFText(data)
	default:
		if !utf8.Valid(data) {
			return "", ErrInvalidEncoding
		}
		return string(data), nil
	}
}

// extractPDFText concatenates the plain text of every page in page order, one line break between pages
func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read text of PDF page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
