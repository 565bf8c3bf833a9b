// Package extract turns opaque uploaded documents into best-effort
// plain text. Extraction may be lossy; callers treat empty output as a
// failed extraction.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF")

// SourceType reports "pdf" for PDF payloads and "text" for anything
// else, by sniffing the file header.
func SourceType(data []byte) string {
	if bytes.HasPrefix(data, pdfMagic) {
		return "pdf"
	}
	return "text"
}

// PlainText treats the payload as UTF-8 text, dropping invalid byte
// sequences.
type PlainText struct{}

func (PlainText) Extract(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), ""), nil
}

// PDF pulls the text layer out of a PDF document. Image-only PDFs
// yield empty text, which upstream treats as extraction failure.
type PDF struct{}

func (PDF) Extract(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// Auto sniffs the payload and dispatches to the matching extractor.
type Auto struct{}

func (Auto) Extract(data []byte) (string, error) {
	if SourceType(data) == "pdf" {
		return PDF{}.Extract(data)
	}
	return PlainText{}.Extract(data)
}
