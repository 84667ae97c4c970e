package resume

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not plain text.
	ErrUnsupportedFormat = errors.New("unsupported resume format: upload plain text or markdown")
	// ErrEmptyResume is returned when there is no resume text to analyze.
	ErrEmptyResume = errors.New("resume text is empty")
)

var textExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

var textMediaTypes = map[string]bool{
	"text/plain":      true,
	"text/markdown":   true,
	"text/x-markdown": true,
}

// ExtractText returns the text of an uploaded resume. Only plain text and markdown are read;
// binary documents such as PDF or DOCX are rejected rather than guessed at.
func ExtractText(filename, contentType string, data []byte) (string, error) {
	if !isTextUpload(filename, contentType) || !utf8.Valid(data) {
		return "", ErrUnsupportedFormat
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return "", ErrEmptyResume
	}
	return text, nil
}

func isTextUpload(filename, contentType string) bool {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			if textMediaTypes[mediaType] {
				return true
			}
			if mediaType != "application/octet-stream" {
				return false
			}
		}
	}
	return textExtensions[strings.ToLower(filepath.Ext(filename))]
}
