package source

import (
	"fmt"
	"unicode/utf8"
)

// Mode is the active input tab.
type Mode int

const (
	ModeText Mode = iota
	ModeFile
)

func (m Mode) String() string {
	if m == ModeFile {
		return "Upload File"
	}
	return "Paste Text"
}

// Selector owns the current Source. Text and file are mutually exclusive:
// populating one clears the other.
//
// Selector is a value type; methods with pointer receivers mutate in place
// and are meant to be called from a single owner.
type Selector struct {
	mode Mode
	text string
	file *File
	err  *ValidationError
}

// Mode returns the active input mode.
func (s Selector) Mode() Mode { return s.mode }

// Text returns the current pasted text (empty in file mode).
func (s Selector) Text() string { return s.text }

// File returns the selected file, or nil.
func (s Selector) File() *File { return s.file }

// Err returns the last validation error, or nil.
func (s Selector) Err() *ValidationError { return s.err }

// Current returns the active Source, or nil when nothing is populated.
func (s Selector) Current() Source {
	if s.file != nil {
		return *s.file
	}
	if s.text != "" {
		return Text{Value: s.text}
	}
	return nil
}

// Ready reports whether a non-empty source is selected.
func (s Selector) Ready() bool {
	src := s.Current()
	return src != nil && !src.Empty()
}

// SelectText replaces the source with text. Text longer than MaxTextLength
// is rejected and the current source is left unchanged.
func (s *Selector) SelectText(text string) error {
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		s.err = &ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("text is %d characters, the limit is %d", n, MaxTextLength),
		}
		return s.err
	}
	s.mode = ModeText
	s.text = text
	s.file = nil
	s.err = nil
	return nil
}

// SelectFile replaces the source with f when its declared media type is
// accepted. On rejection the current source is left unchanged.
func (s *Selector) SelectFile(f File) error {
	if !Accepted(f.MediaType) {
		s.err = &ValidationError{Field: "file", Message: invalidFileTypeMessage}
		return s.err
	}
	if f.Name == "" {
		s.err = &ValidationError{Field: "file", Message: "file has no name"}
		return s.err
	}
	s.mode = ModeFile
	s.file = &f
	s.text = ""
	s.err = nil
	return nil
}

// SetMode switches the input tab and clears the other mode's value.
func (s *Selector) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.err = nil
	switch m {
	case ModeText:
		s.file = nil
	case ModeFile:
		s.text = ""
	}
}

// ClearError drops the pending validation error.
func (s *Selector) ClearError() { s.err = nil }

// Counter describes the pasted text length for display.
type Counter struct {
	Length int
	Limit  int
	Warn   bool
}

func (c Counter) String() string {
	return fmt.Sprintf("%s / %s characters", groupThousands(c.Length), groupThousands(c.Limit))
}

// Counter returns the character counter for the current text.
func (s Selector) Counter() Counter {
	n := utf8.RuneCountInString(s.text)
	return Counter{Length: n, Limit: MaxTextLength, Warn: n > WarnTextLength}
}

func groupThousands(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}
	var out []byte
	lead := len(str) % 3
	if lead > 0 {
		out = append(out, str[:lead]...)
	}
	for i := lead; i < len(str); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, str[i:i+3]...)
	}
	return string(out)
}
