package store

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/pkg/errors"

	"github.com/deppfellow/contactbook/internal/config"
)

// GitHub is a BlobStore over the GitHub repository Contents API.
//
// Files travel base64-encoded; revisions are blob SHAs. A PUT naming a stale
// SHA is answered with 409 Conflict, a PUT without SHA for an existing file
// with 422.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
}

var _ BlobStore = (*GitHub)(nil)

// NewGitHub builds a client authenticated with the bearer token in cfg.
// A nil httpClient means http.DefaultClient: no timeout beyond the
// environment's defaults.
func NewGitHub(cfg config.RemoteConfig, httpClient *http.Client) (*GitHub, error) {
	baseURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid remote api url %q", cfg.APIURL)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	client := github.NewClient(httpClient).WithAuthToken(cfg.Token)
	client.BaseURL = baseURL

	return &GitHub{client: client, owner: cfg.Owner, repo: cfg.Repo}, nil
}

func (s *GitHub) Fetch(ctx context.Context, path, ref string) (FetchResult, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return FetchResult{Exists: false}, nil
		}
		return FetchResult{}, remoteError(http.MethodGet, resp, err)
	}
	if file == nil {
		return FetchResult{}, errors.Errorf("remote store GET %s: path is a directory", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return FetchResult{}, errors.Wrapf(err, "remote store GET %s: decode content", path)
	}

	return FetchResult{
		Exists:   true,
		Revision: Revision(file.GetSHA()),
		Content:  []byte(content),
	}, nil
}

func (s *GitHub) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(req.Message),
		Content: req.Content,
		Branch:  github.String(req.Branch),
	}

	write := s.client.Repositories.CreateFile
	if !req.Revision.IsZero() {
		opts.SHA = github.String(string(req.Revision))
		write = s.client.Repositories.UpdateFile
	}

	result, resp, err := write(ctx, s.owner, s.repo, req.Path, opts)
	if err != nil {
		return WriteResult{}, remoteError(http.MethodPut, resp, err)
	}

	return WriteResult{
		Revision: Revision(result.Content.GetSHA()),
		Commit:   result.Commit.GetSHA(),
	}, nil
}

// remoteError turns a failed call into a RemoteStoreError when the remote
// answered at all. go-github re-populates the response body after reading
// it, so the raw payload is still available here.
func remoteError(op string, resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return errors.Wrapf(err, "remote store %s", op)
	}

	body := ""
	if resp.Body != nil {
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			body = strings.TrimSpace(string(data))
		}
	}
	if body == "" {
		body = err.Error()
	}

	return &RemoteStoreError{Op: op, StatusCode: resp.StatusCode, Body: body}
}
