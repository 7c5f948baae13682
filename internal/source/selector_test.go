package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectText_WithinLimit(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short", "Photosynthesis converts light to energy"},
		{"exactly at limit", strings.Repeat("a", MaxTextLength)},
		{"multibyte at limit", strings.Repeat("é", MaxTextLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selector
			require.NoError(t, s.SelectText(tt.text))
			assert.Equal(t, Text{Value: tt.text}, s.Current())
			assert.Nil(t, s.Err())
		})
	}
}

func TestSelectText_OverLimitLeavesSourceUnchanged(t *testing.T) {
	var s Selector
	require.NoError(t, s.SelectText("keep me"))

	err := s.SelectText(strings.Repeat("x", MaxTextLength+1))
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "text", valErr.Field)
	assert.Equal(t, Text{Value: "keep me"}, s.Current())
}

func TestSelectFile_AcceptedTypes(t *testing.T) {
	for _, mt := range []string{MediaTypePDF, MediaTypeDOCX, MediaTypePPTX, MediaTypeText} {
		t.Run(mt, func(t *testing.T) {
			var s Selector
			require.NoError(t, s.SelectText("previous text"))

			f := File{Name: "notes" + acceptedTypes[mt], MediaType: mt, Data: []byte("x")}
			require.NoError(t, s.SelectFile(f))

			assert.Equal(t, f, s.Current())
			assert.Empty(t, s.Text(), "selecting a file must clear text")
			assert.Equal(t, ModeFile, s.Mode())
		})
	}
}

func TestSelectFile_RejectedTypeLeavesSourceUnchanged(t *testing.T) {
	var s Selector
	require.NoError(t, s.SelectText("study notes"))

	err := s.SelectFile(File{Name: "photo.png", MediaType: "image/png", Data: []byte{0x89}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file type")
	assert.NotNil(t, s.Err())
	assert.Equal(t, Text{Value: "study notes"}, s.Current())
}

func TestSelectText_ClearsFile(t *testing.T) {
	var s Selector
	require.NoError(t, s.SelectFile(File{Name: "a.pdf", MediaType: MediaTypePDF}))
	require.NoError(t, s.SelectText("now text"))

	assert.Nil(t, s.File())
	assert.Equal(t, Text{Value: "now text"}, s.Current())
}

func TestSetMode_NeverBothPopulated(t *testing.T) {
	var s Selector
	require.NoError(t, s.SelectText("text"))

	s.SetMode(ModeFile)
	assert.Empty(t, s.Text())
	assert.Nil(t, s.File())

	require.NoError(t, s.SelectFile(File{Name: "a.txt", MediaType: MediaTypeText}))
	s.SetMode(ModeText)
	assert.Nil(t, s.File())
	assert.False(t, s.Ready())

	// Switching to the active mode is a no-op.
	require.NoError(t, s.SelectText("again"))
	s.SetMode(ModeText)
	assert.Equal(t, "again", s.Text())
}

func TestReady(t *testing.T) {
	var s Selector
	assert.False(t, s.Ready())

	require.NoError(t, s.SelectText(""))
	assert.False(t, s.Ready())

	require.NoError(t, s.SelectText("content"))
	assert.True(t, s.Ready())
}

func TestCounter(t *testing.T) {
	var s Selector
	require.NoError(t, s.SelectText(strings.Repeat("a", 1234)))
	c := s.Counter()
	assert.Equal(t, "1,234 / 100,000 characters", c.String())
	assert.False(t, c.Warn)

	require.NoError(t, s.SelectText(strings.Repeat("a", WarnTextLength+1)))
	assert.True(t, s.Counter().Warn)
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{95000, "95,000"},
		{100000, "100,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groupThousands(tt.in))
	}
}

func TestDeclaredType(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		data   []byte
		want   string
		wantOK bool
	}{
		{"pdf by extension", "notes.PDF", nil, MediaTypePDF, true},
		{"docx by extension", "notes.docx", nil, MediaTypeDOCX, true},
		{"pptx by extension", "deck.pptx", nil, MediaTypePPTX, true},
		{"txt by extension", "notes.txt", nil, MediaTypeText, true},
		{"sniffed pdf", "scan", []byte("%PDF-1.4\n%âãÏÓ\n"), MediaTypePDF, true},
		{"sniffed text", "README", []byte("plain words here\n"), MediaTypeText, true},
		{"png rejected", "image.png", []byte("\x89PNG\r\n\x1a\n"), "image/png", false},
		{"extension wins over content", "report.pdf", []byte("plain words"), MediaTypePDF, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeclaredType(tt.file, tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeclaredType_OtherExtensionsRejected(t *testing.T) {
	tests := []struct {
		file string
		data []byte
	}{
		{"notes.md", []byte("# Chapter 1\nplain words\n")},
		{"main.go", []byte("package main\n")},
		{"report.exe", []byte("%PDF-1.4\n")},
		{"notes.text", []byte("plain words\n")},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := DeclaredType(tt.file, tt.data)
			assert.False(t, ok)
			assert.False(t, Accepted(got), "declared %s", got)
		})
	}
}

func TestLoadFile_OtherExtensionFailsSelection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.exe")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)

	var sel Selector
	sel.SetMode(ModeFile)
	err = sel.SelectFile(f)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Nil(t, sel.File())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chapter1.txt")
	require.NoError(t, os.WriteFile(path, []byte("Mitochondria is the powerhouse."), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chapter1.txt", f.Name)
	assert.Equal(t, MediaTypeText, f.MediaType)
	assert.Equal(t, "Mitochondria is the powerhouse.", string(f.Data))

	_, err = LoadFile(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	_, err = LoadFile(dir)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
