package quizapi

import (
	"fmt"
	"strings"
)

// Format is an export document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// Formats lists the export formats in display order.
var Formats = []Format{FormatPDF, FormatDOCX, FormatTXT}

// ParseFormat converts a user-supplied string to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unsupported export format %q (want pdf, docx or txt)", s)
	}
	return f, nil
}

// Valid reports whether f is a supported export format.
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatTXT:
		return true
	}
	return false
}

// FileName is the name the exported document is saved under.
func (f Format) FileName() string {
	return "quiz." + string(f)
}

// Label is the upper-case name shown on export buttons.
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// ContentType is the media type of an exported document.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}
