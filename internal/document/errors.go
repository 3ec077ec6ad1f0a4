package document

import "fmt"

// UnsupportedFormatError is returned for extensions outside .txt, .pdf and .docx.
// It is raised before any parsing is attempted.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported document format: file has no extension"
	}
	return fmt.Sprintf("unsupported document format: %q", e.Extension)
}

// ExtractionError means the bytes could not be read by the parser of the declared format.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s text: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// InsufficientTextError means the document yielded fewer than MinTextLength characters.
type InsufficientTextError struct {
	Length int
}

func (e *InsufficientTextError) Error() string {
	return fmt.Sprintf("insufficient text extracted: %d characters (minimum %d)", e.Length, MinTextLength)
}
