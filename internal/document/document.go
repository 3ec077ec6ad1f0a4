// Package document converts uploaded document bytes into plain text.
package document

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

type Format string

const (
	FormatTXT  Format = "txt"
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"

	// MinTextLength is the smallest amount of trimmed text worth running heuristics on.
	MinTextLength = 20
)

var formats = map[string]Format{
	".txt":  FormatTXT,
	".docx": FormatDOCX,
	".pdf":  FormatPDF,
}

// Detect returns the document format for filename based on its extension.
func Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	format, ok := formats[ext]
	if !ok {
		return "", &UnsupportedFormatError{Extension: ext}
	}
	return format, nil
}

// Supported reports whether filename has an accepted extension.
func Supported(filename string) bool {
	_, err := Detect(filename)
	return err == nil
}

// Extract returns the plain text of raw, parsed according to the extension of filename.
func Extract(raw []byte, filename string) (string, error) {
	format, err := Detect(filename)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatTXT:
		text = decodeText(raw)
	case FormatDOCX:
		text, err = extractDocx(raw)
	case FormatPDF:
		text, err = extractPDF(raw)
	}
	if err != nil {
		return "", &ExtractionError{Format: format, Err: err}
	}

	text = strings.TrimSpace(norm.NFC.String(text))
	if n := utf8.RuneCountInString(text); n < MinTextLength {
		return "", &InsufficientTextError{Length: n}
	}

	return text, nil
}

// decodeText drops invalid UTF-8 sequences and a leading byte order mark.
func decodeText(raw []byte) string {
	text := strings.ToValidUTF8(string(raw), "")
	return strings.TrimPrefix(text, "\ufeff")
}
