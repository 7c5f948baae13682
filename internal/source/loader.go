package source

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize bounds the size of an uploaded document.
const MaxFileSize = 25 << 20

var extensionTypes = map[string]string{
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
	".pptx": MediaTypePPTX,
	".txt":  MediaTypeText,
}

// DeclaredType returns the media type declared by name's extension. Content
// is sniffed only when name has no extension. An extension outside the
// accepted set declares its registered type, or application/octet-stream,
// and never an accepted one. The second result is false if the type is not
// accepted.
func DeclaredType(name string, data []byte) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		detected := mimetype.Detect(data)
		for mt := range acceptedTypes {
			if detected.Is(mt) {
				return mt, true
			}
		}
		return detected.String(), false
	}

	if mt, ok := extensionTypes[ext]; ok {
		return mt, true
	}
	mt, _, err := mime.ParseMediaType(mime.TypeByExtension(ext))
	if err != nil || Accepted(mt) {
		mt = "application/octet-stream"
	}
	return mt, false
}

// LoadFile reads path and returns it as a File with its declared media type.
// Unreadable files are returned as errors; unaccepted types come back as a
// File whose MediaType is not accepted, so SelectFile reports them.
func LoadFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, &ValidationError{Field: "file", Message: fmt.Sprintf("%s is a directory", path)}
	}
	if info.Size() > MaxFileSize {
		return File{}, &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file is %d bytes, the limit is %d", info.Size(), MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}

	mt, _ := DeclaredType(path, data)
	return File{
		Name:      filepath.Base(path),
		MediaType: mt,
		Data:      data,
	}, nil
}
