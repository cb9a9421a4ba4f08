package github

import (
	"context"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

const apiBaseURL = "https://api.github.com"

// FileVisitor receives one fetched file at a time. Returning an error stops
// the fetch and propagates the error to the caller.
type FileVisitor func(types.FileRecord) error

// Fetcher streams the indexable files of a repository branch to a visitor.
type Fetcher interface {
	FetchFiles(ctx context.Context, owner, repo, branch string, visit FileVisitor) error
}

func newAPIClient(token string) *gogithub.Client {
	client := gogithub.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}
