package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	perr "gitcards/internal/platform/errors"
)

// UserRepos lists a user's public source repositories, most recently
// pushed first. Forks are filtered out and the result is capped at max.
func (c *Client) UserRepos(ctx context.Context, login string, max int) ([]Repo, error) {
	path := fmt.Sprintf("/users/%s/repos?sort=pushed&per_page=100&type=owner", url.PathEscape(login))
	resp, err := c.Do(ctx, http.MethodGet, path, "")
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp, path)

	if resp.StatusCode == http.StatusNotFound {
		return nil, perr.NotFoundf("github user %q", login)
	}

	var all []Repo
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read repos")
	}
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "github decode repos")
	}

	out := make([]Repo, 0, len(all))
	for _, r := range all {
		if r.Fork || r.Private {
			continue
		}
		out = append(out, r)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, nil
}

// RepoTree fetches the recursive git tree of one branch with optional
// etag. A 304 returns notModified true and the caller's copy stays valid.
func (c *Client) RepoTree(ctx context.Context, fullName, branch, etag string) (Tree, string, bool, error) {
	path := fmt.Sprintf("/repos/%s/git/trees/%s?recursive=1", fullName, url.PathEscape(branch))
	resp, err := c.Do(ctx, http.MethodGet, path, etag)
	if err != nil {
		return Tree{}, "", false, err
	}
	defer c.closeBody(resp, path)

	if resp.StatusCode == http.StatusNotModified {
		return Tree{}, resp.Header.Get("ETag"), true, nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return Tree{}, "", false, perr.NotFoundf("github tree %s@%s", fullName, branch)
	}

	var out Tree
	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return Tree{}, "", false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read tree")
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return Tree{}, "", false, perr.Wrapf(err, perr.ErrorCodeUnknown, "github decode tree")
	}
	return out, resp.Header.Get("ETag"), false, nil
}

// RawFile fetches one file's raw content from the raw host, capped at
// maxBytes. Oversize responses return ErrTooLarge so callers can skip
// the file rather than truncate it.
func (c *Client) RawFile(ctx context.Context, fullName, branch, path string, maxBytes int64) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/%s/%s", c.opts.RawURL, fullName, url.PathEscape(branch), escapePath(path))
	resp, err := c.Do(ctx, http.MethodGet, u, "")
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp, path)

	if resp.StatusCode == http.StatusNotFound {
		return nil, perr.NotFoundf("github raw %s/%s", fullName, path)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read raw %s", path)
	}
	if int64(len(b)) > maxBytes {
		return nil, perr.Newf(perr.ErrorCodePayloadTooLarge, "github raw %s exceeds %d bytes", path, maxBytes)
	}
	return b, nil
}

// escapePath escapes each segment while keeping the slashes
func escapePath(p string) string {
	u := &url.URL{Path: p}
	return u.EscapedPath()
}

func (c *Client) closeBody(resp *http.Response, path string) {
	if cerr := resp.Body.Close(); cerr != nil {
		c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
	}
}
