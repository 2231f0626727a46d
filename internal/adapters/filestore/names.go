package filestore

import (
	"mime"
	"path/filepath"
	"strings"
	"unicode"
)

// ResumePrefix is the directory, or object prefix, resumes are stored under
const ResumePrefix = "resumes"

// SanitizeFilename keeps the base name of filename and replaces characters
// that are unsafe in paths and object keys. Letters of any script survive.
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '.', r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		default:
			return -1
		}
	}, base)

	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "resume"
	}
	return cleaned
}

// ContentType guesses the MIME type from the file extension
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
