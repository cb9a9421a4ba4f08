package types

import "fmt"

// RepoSyncRequest is the payload consumed from the repository queue.
// Branch defaults to "main" when omitted by the publisher.
type RepoSyncRequest struct {
	RepositoryID int64  `json:"repository_id"`
	Owner        string `json:"owner"`
	RepoName     string `json:"repo_name"`
	Branch       string `json:"branch"`
	GithubToken  string `json:"github_token,omitempty"`
}

// Validate checks required fields and applies the branch default
func (r *RepoSyncRequest) Validate() error {
	if r.RepositoryID == 0 {
		return fmt.Errorf("%w: repository_id is required", ErrInvalidMessage)
	}
	if r.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidMessage)
	}
	if r.RepoName == "" {
		return fmt.Errorf("%w: repo_name is required", ErrInvalidMessage)
	}
	if r.Branch == "" {
		r.Branch = "main"
	}
	return nil
}

// PRSyncRequest is the payload consumed from the pull-request queue
type PRSyncRequest struct {
	RepositoryID int64  `json:"repository_id"`
	Owner        string `json:"owner"`
	RepoName     string `json:"repo_name"`
	Branch       string `json:"branch"`
	PRNumber     int    `json:"pr_number"`
	GithubToken  string `json:"github_token,omitempty"`
}

// Validate checks required fields
func (r *PRSyncRequest) Validate() error {
	if r.RepositoryID == 0 {
		return fmt.Errorf("%w: repository_id is required", ErrInvalidMessage)
	}
	if r.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidMessage)
	}
	if r.RepoName == "" {
		return fmt.Errorf("%w: repo_name is required", ErrInvalidMessage)
	}
	if r.Branch == "" {
		return fmt.Errorf("%w: branch is required", ErrInvalidMessage)
	}
	if r.PRNumber <= 0 {
		return fmt.Errorf("%w: pr_number must be positive", ErrInvalidMessage)
	}
	return nil
}
