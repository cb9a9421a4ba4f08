package types

import "strings"

// FileRecord represents a source file fetched from a repository.
// Content is decoded UTF-8 text; fetchers skip files that fail decoding.
type FileRecord struct {
	Path     string
	Content  string
	Language string // lowercase language tag or "unknown"
	Size     int64  // content length in bytes
}

// Validate checks if the file record is usable for chunking
func (f *FileRecord) Validate() error {
	if f.Path == "" {
		return ErrEmptyPath
	}
	if f.Language == "" {
		return ErrMissingLanguage
	}
	return nil
}

// IsBlank reports whether the file has no indexable content
func (f *FileRecord) IsBlank() bool {
	return strings.TrimSpace(f.Content) == ""
}
