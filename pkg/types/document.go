package types

import (
	"crypto/md5" //nolint:gosec // non-cryptographic: short suffix for document ID uniqueness
	"encoding/hex"
	"fmt"
	"strings"
)

// CategoryCode marks documents built from repository source files
const CategoryCode = "CODE"

// CodeDocument is the Meilisearch document for one code chunk. The _vectors
// map carries the client-side embedding under the "default" embedder name.
type CodeDocument struct {
	ID           string               `json:"id"`
	FilePath     string               `json:"file_path"`
	Category     string               `json:"category"`
	Source       string               `json:"source"` // {repo}@{branch}
	Text         string               `json:"text"`
	RepositoryID int64                `json:"repository_id"`
	Owner        string               `json:"owner"`
	Language     string               `json:"language"`
	HTMLURL      string               `json:"html_url"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
	Vectors      map[string][]float32 `json:"_vectors"`
}

// CodeDocumentID builds the deterministic document identifier. The md5
// suffix disambiguates files sharing a basename; the basename keeps IDs
// human-readable in the Meilisearch dashboard.
func CodeDocumentID(repoID int64, filePath string, chunkIndex int) string {
	unique := fmt.Sprintf("%d_%s_%d", repoID, filePath, chunkIndex)
	sum := md5.Sum([]byte(unique)) //nolint:gosec
	suffix := hex.EncodeToString(sum[:])[:10]

	parts := strings.Split(filePath, "/")
	safeName := strings.ReplaceAll(parts[len(parts)-1], ".", "_")
	return fmt.Sprintf("repo_%d_%s_%d_%s", repoID, safeName, chunkIndex, suffix)
}

// NewCodeDocument assembles a document from a chunk and its repository scope
func NewCodeDocument(chunk Chunk, chunkIndex int, repoID int64, owner, repo, branch string) CodeDocument {
	return CodeDocument{
		ID:           CodeDocumentID(repoID, chunk.FilePath, chunkIndex),
		FilePath:     chunk.FilePath,
		Category:     CategoryCode,
		Source:       fmt.Sprintf("%s@%s", repo, branch),
		Text:         chunk.Content,
		RepositoryID: repoID,
		Owner:        owner,
		Language:     chunk.Language,
		HTMLURL:      fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", owner, repo, branch, chunk.FilePath),
		Metadata:     chunk.Metadata,
		Vectors:      map[string][]float32{},
	}
}

// PRMetadata holds the pull-request fields collected from the GitHub API
type PRMetadata struct {
	Number         int
	Title          string
	Body           string
	State          string
	Author         string
	BaseBranch     string
	HeadBranch     string
	CreatedAt      int64  // Unix seconds
	UpdatedAt      int64  // Unix seconds
	MergedAt       *int64 // nil while open
	ClosedAt       *int64
	CommitMessages []string
	ChangedFiles   []string
	Additions      int
	Deletions      int
	Labels         []string
	Milestone      string
	HTMLURL        string
}

// PRDocument is the Meilisearch document for one pull request
type PRDocument struct {
	ID             string   `json:"id"`
	SourceType     int      `json:"source_type"`
	PRNumber       int      `json:"pr_number"`
	Owner          string   `json:"owner"`
	Repo           string   `json:"repo"`
	BaseBranch     string   `json:"base_branch"`
	HeadBranch     string   `json:"head_branch"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	State          string   `json:"state"`
	Author         string   `json:"author"`
	CreatedAt      int64    `json:"created_at"`
	UpdatedAt      int64    `json:"updated_at"`
	MergedAt       *int64   `json:"merged_at,omitempty"`
	ClosedAt       *int64   `json:"closed_at,omitempty"`
	CommitMessages []string `json:"commit_messages"`
	ChangedFiles   []string `json:"changed_files"`
	Additions      int      `json:"additions"`
	Deletions      int      `json:"deletions"`
	Labels         []string `json:"labels"`
	Milestone      string   `json:"milestone,omitempty"`
	HTMLURL        string   `json:"html_url"`
}

// SourceTypePR distinguishes PR documents in mixed result sets
const SourceTypePR = 1

// NewPRDocument assembles a document from fetched PR metadata
func NewPRDocument(meta PRMetadata, repoID int64, owner, repo string) PRDocument {
	return PRDocument{
		ID:             fmt.Sprintf("pr_%d_%d", repoID, meta.Number),
		SourceType:     SourceTypePR,
		PRNumber:       meta.Number,
		Owner:          owner,
		Repo:           repo,
		BaseBranch:     meta.BaseBranch,
		HeadBranch:     meta.HeadBranch,
		Title:          meta.Title,
		Body:           meta.Body,
		State:          meta.State,
		Author:         meta.Author,
		CreatedAt:      meta.CreatedAt,
		UpdatedAt:      meta.UpdatedAt,
		MergedAt:       meta.MergedAt,
		ClosedAt:       meta.ClosedAt,
		CommitMessages: meta.CommitMessages,
		ChangedFiles:   meta.ChangedFiles,
		Additions:      meta.Additions,
		Deletions:      meta.Deletions,
		Labels:         meta.Labels,
		Milestone:      meta.Milestone,
		HTMLURL:        meta.HTMLURL,
	}
}
