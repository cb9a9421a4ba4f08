package types

import "fmt"

// Metadata keys recognized on a chunk. A key is present only when the
// extractor detected a value; values are never empty strings.
const (
	MetadataClassName    = "class_name"
	MetadataFunctionName = "function_name"
)

// Chunk represents a semantically bounded piece of a file, ready for
// embedding and indexing
type Chunk struct {
	// Identification
	ID       string // deterministic: scope + path + index
	FilePath string

	// Content carries the injected "File: <path>" header line followed by
	// a blank line and the fragment text
	Content string

	// Metadata
	Language string
	Metadata map[string]string // class_name / function_name when detected
}

// ChunkID builds the deterministic chunk identifier for a fragment of a file.
// scopeID is the repository's database ID.
func ChunkID(scopeID int64, filePath string, index int) string {
	return fmt.Sprintf("repo_%d_%s_%d", scopeID, filePath, index)
}

// Validate checks if the chunk is well formed
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return ErrInvalidChunkID
	}
	if c.Content == "" {
		return ErrEmptyContent
	}
	for k, v := range c.Metadata {
		if k != MetadataClassName && k != MetadataFunctionName {
			return fmt.Errorf("%w: unknown metadata key %q", ErrInvalidMetadata, k)
		}
		if v == "" {
			return fmt.Errorf("%w: empty value for %q", ErrInvalidMetadata, k)
		}
	}
	return nil
}

// ClassName returns the detected enclosing class name, if any
func (c *Chunk) ClassName() (string, bool) {
	v, ok := c.Metadata[MetadataClassName]
	return v, ok
}

// FunctionName returns the detected enclosing function name, if any
func (c *Chunk) FunctionName() (string, bool) {
	v, ok := c.Metadata[MetadataFunctionName]
	return v, ok
}
