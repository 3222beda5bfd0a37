// Package gitsync reads and writes the canonical collection document
// as a single file in a GitHub repository, using the contents API's
// optimistic-concurrency semantics: read the current blob sha, write
// with that sha, accept the server-assigned new one.
package gitsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/recipedex/recipedex/internal/recipe"
)

// DefaultTimeout is the HTTP request timeout for remote calls.
const DefaultTimeout = 30 * time.Second

// Config locates the remote document and carries the bearer token.
// The token is expected to arrive from the environment or the settings
// layer, never from source.
type Config struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
	Token  string
}

// SyncError reports a rejected remote write with the response detail
// the store surfaces to its caller.
type SyncError struct {
	StatusCode int
	Body       string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("remote write rejected: status %d: %s", e.StatusCode, e.Body)
}

// Client is the remote sync adapter.
type Client struct {
	gh  *gh.Client
	cfg Config
}

// New builds a Client for the configured repository.
func New(cfg Config) *Client {
	var hc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = DefaultTimeout
	return &Client{gh: gh.NewClient(hc), cfg: cfg}
}

// GitHub returns the underlying go-github client. Tests point its
// BaseURL at a local server.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// Configured reports whether the adapter can reach a remote document.
func (c *Client) Configured() bool {
	return c.cfg.Owner != "" && c.cfg.Repo != "" && c.cfg.Token != ""
}

// Read fetches and parses the remote document. Any failure (network,
// non-success status, undecodable content, malformed JSON) reports
// unavailability instead of an error so the load chain falls through.
func (c *Client) Read(ctx context.Context) (recipe.Collection, bool) {
	fc, _, _, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, c.cfg.Path,
		&gh.RepositoryContentGetOptions{Ref: c.cfg.Branch})
	if err != nil || fc == nil {
		return recipe.Collection{}, false
	}

	content, err := fc.GetContent()
	if err != nil {
		return recipe.Collection{}, false
	}

	var col recipe.Collection
	if err := json.Unmarshal([]byte(content), &col); err != nil {
		return recipe.Collection{}, false
	}
	return col, true
}

// Write overwrites the remote document with col. It first fetches the
// current blob sha; when that fails the write proceeds without one,
// which the API treats as creating a new file.
//
// Known race: another writer can land between the sha fetch and the
// write, and between Read and Write the document may change; the last
// successful writer wins, full stop. Local state is never at risk
// because the snapshot is persisted before any remote write.
func (c *Client) Write(ctx context.Context, col recipe.Collection, message string) error {
	payload, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	var sha string
	fc, _, _, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, c.cfg.Path,
		&gh.RepositoryContentGetOptions{Ref: c.cfg.Branch})
	if err == nil && fc != nil {
		sha = fc.GetSHA()
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: payload,
	}
	if c.cfg.Branch != "" {
		opts.Branch = gh.Ptr(c.cfg.Branch)
	}

	var resp *gh.Response
	if sha == "" {
		_, resp, err = c.gh.Repositories.CreateFile(ctx, c.cfg.Owner, c.cfg.Repo, c.cfg.Path, opts)
	} else {
		opts.SHA = gh.Ptr(sha)
		_, resp, err = c.gh.Repositories.UpdateFile(ctx, c.cfg.Owner, c.cfg.Repo, c.cfg.Path, opts)
	}
	if err != nil {
		return wrapWriteError(err, resp)
	}
	return nil
}

func wrapWriteError(err error, resp *gh.Response) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		} else if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
		return &SyncError{StatusCode: status, Body: ghErr.Message}
	}
	return fmt.Errorf("remote write: %w", err)
}
