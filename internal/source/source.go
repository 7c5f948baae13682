package source

import (
	"fmt"
	"unicode/utf8"
)

// MaxTextLength is the maximum number of characters (code points) accepted
// for pasted text.
const MaxTextLength = 100_000

// WarnTextLength is the length past which the character counter is shown
// as a warning.
const WarnTextLength = 95_000

// Media types accepted for uploaded files.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MediaTypeText = "text/plain"
)

// acceptedTypes maps accepted media types to their canonical extension.
var acceptedTypes = map[string]string{
	MediaTypePDF:  ".pdf",
	MediaTypeDOCX: ".docx",
	MediaTypePPTX: ".pptx",
	MediaTypeText: ".txt",
}

// Accepted reports whether mediaType is one of the accepted file types.
func Accepted(mediaType string) bool {
	_, ok := acceptedTypes[mediaType]
	return ok
}

// Kind discriminates the Source variants on the wire.
type Kind string

const (
	KindText Kind = "text"
	KindFile Kind = "file"
)

// Source is the study material the quiz is generated from. It is either
// Text or File; the interface is sealed.
type Source interface {
	Kind() Kind
	// Empty reports whether the source carries no material.
	Empty() bool
	isSource()
}

// Text is pasted study material.
type Text struct {
	Value string
}

func (Text) Kind() Kind    { return KindText }
func (t Text) Empty() bool { return t.Value == "" }
func (Text) isSource()     {}

// Length returns the text length in code points.
func (t Text) Length() int {
	return utf8.RuneCountInString(t.Value)
}

// File is an uploaded document.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

func (File) Kind() Kind    { return KindFile }
func (f File) Empty() bool { return f.Name == "" }
func (File) isSource()     {}

// SizeKB returns the file size in kilobytes.
func (f File) SizeKB() float64 {
	return float64(len(f.Data)) / 1024
}

// ValidationError describes input that was rejected by the selector.
// It is shown next to the offending input and never escalates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// invalidFileTypeMessage is shown for rejected uploads.
const invalidFileTypeMessage = "Invalid file type. Please upload a .pdf, .docx, .pptx, or .txt file."
