package types

import "errors"

// Domain errors shared across worker components
var (
	// Chunk and file errors
	ErrInvalidChunkID  = errors.New("invalid chunk ID")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrInvalidMetadata = errors.New("invalid chunk metadata")
	ErrEmptyPath       = errors.New("file path cannot be empty")
	ErrMissingLanguage = errors.New("language tag is required")

	// Queue message errors
	ErrInvalidMessage = errors.New("invalid sync message")

	// GitHub fetch errors
	ErrPRNotFound      = errors.New("pull request not found")
	ErrRateLimited     = errors.New("github rate limit exceeded")
	ErrArchiveTooLarge = errors.New("repository archive exceeds size limit")

	// Search engine errors
	ErrIndexingFailed = errors.New("indexing failed")
)
