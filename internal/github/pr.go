package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// PRClient collects pull-request metadata: the PR record itself, the list of
// changed files with line counts, and every commit message.
type PRClient struct {
	client *gogithub.Client
	log    logger.Logger
}

// NewPRClient creates a pull-request client. The token may be empty for
// public repositories.
func NewPRClient(token string, log logger.Logger) *PRClient {
	if log == nil {
		log = logger.Nop()
	}
	return &PRClient{client: newAPIClient(token), log: log}
}

// FetchPRMetadata gathers everything the PR index stores about one pull
// request. A missing PR maps to types.ErrPRNotFound and an exhausted API
// quota to types.ErrRateLimited, so callers can tell permanent failures
// from retryable ones.
func (c *PRClient) FetchPRMetadata(ctx context.Context, owner, repo string, number int) (types.PRMetadata, error) {
	c.log.Info("fetching pull request", "repo", owner+"/"+repo, "number", number)

	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return types.PRMetadata{}, c.wrapAPIError(err, owner, repo, number)
	}

	changedFiles, additions, deletions, err := c.listChangedFiles(ctx, owner, repo, number)
	if err != nil {
		return types.PRMetadata{}, c.wrapAPIError(err, owner, repo, number)
	}

	messages, err := c.listCommitMessages(ctx, owner, repo, number)
	if err != nil {
		return types.PRMetadata{}, c.wrapAPIError(err, owner, repo, number)
	}

	meta := types.PRMetadata{
		Number:         number,
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
		State:          pr.GetState(),
		Author:         pr.GetUser().GetLogin(),
		BaseBranch:     pr.GetBase().GetRef(),
		HeadBranch:     pr.GetHead().GetRef(),
		CreatedAt:      pr.GetCreatedAt().Unix(),
		UpdatedAt:      pr.GetUpdatedAt().Unix(),
		MergedAt:       unixOrNil(pr.MergedAt),
		ClosedAt:       unixOrNil(pr.ClosedAt),
		CommitMessages: messages,
		ChangedFiles:   changedFiles,
		Additions:      additions,
		Deletions:      deletions,
		Labels:         labelNames(pr.Labels),
		Milestone:      pr.GetMilestone().GetTitle(),
		HTMLURL:        pr.GetHTMLURL(),
	}

	c.log.Info("pull request fetched",
		"repo", owner+"/"+repo, "number", number,
		"files", len(changedFiles), "commits", len(messages))
	return meta, nil
}

func (c *PRClient) listChangedFiles(ctx context.Context, owner, repo string, number int) (paths []string, additions, deletions int, err error) {
	opts := &gogithub.ListOptions{PerPage: 100}
	for {
		files, resp, listErr := c.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if listErr != nil {
			return nil, 0, 0, listErr
		}
		for _, file := range files {
			paths = append(paths, file.GetFilename())
			additions += file.GetAdditions()
			deletions += file.GetDeletions()
		}
		if resp.NextPage == 0 {
			return paths, additions, deletions, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *PRClient) listCommitMessages(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var messages []string
	opts := &gogithub.ListOptions{PerPage: 100}
	for {
		commits, resp, err := c.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, err
		}
		for _, commit := range commits {
			messages = append(messages, commit.GetCommit().GetMessage())
		}
		if resp.NextPage == 0 {
			return messages, nil
		}
		opts.Page = resp.NextPage
	}
}

// wrapAPIError maps GitHub API failures onto the worker's sentinel errors.
func (c *PRClient) wrapAPIError(err error, owner, repo string, number int) error {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: resets at %s",
			types.ErrRateLimited, rateErr.Rate.Reset.Format(time.RFC3339))
	}

	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: secondary limit, retry after %s",
			types.ErrRateLimited, abuseErr.GetRetryAfter())
	}

	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil &&
		respErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s/%s#%d", types.ErrPRNotFound, owner, repo, number)
	}

	return fmt.Errorf("fetch pull request %s/%s#%d: %w", owner, repo, number, err)
}

func unixOrNil(ts *gogithub.Timestamp) *int64 {
	if ts == nil {
		return nil
	}
	v := ts.Unix()
	return &v
}

func labelNames(labels []*gogithub.Label) []string {
	if len(labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.GetName())
	}
	return names
}
