package github

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache TTLs follow how fast each document actually churns: repo lists
// move, trees move slower, a blob at a fixed branch+path is near-immutable.
// Trees stay in the LRU past their freshness window so a stale entry's
// etag can revalidate with a conditional request instead of a refetch.
const (
	repoTTL      = time.Hour
	treeTTL      = 30 * time.Minute
	treeEvictTTL = 24 * time.Hour
	fileTTL      = 24 * time.Hour

	repoCacheSize = 512
	treeCacheSize = 1024
	fileCacheSize = 8192
)

// treeEntry carries the tree plus the etag and fetch time needed for
// If-None-Match revalidation once the freshness window lapses
type treeEntry struct {
	tree    Tree
	etag    string
	fetched time.Time
}

// CachedClient wraps Client with in-memory TTL caches so repeated card
// renders for the same user do not hammer the GitHub API
type CachedClient struct {
	c   *Client
	now func() time.Time

	repos *expirable.LRU[string, []Repo]
	trees *expirable.LRU[string, treeEntry]
	files *expirable.LRU[string, []byte]
}

// NewCachedClient builds the caching layer over c
func NewCachedClient(c *Client) *CachedClient {
	return &CachedClient{
		c:     c,
		now:   time.Now,
		repos: expirable.NewLRU[string, []Repo](repoCacheSize, nil, repoTTL),
		trees: expirable.NewLRU[string, treeEntry](treeCacheSize, nil, treeEvictTTL),
		files: expirable.NewLRU[string, []byte](fileCacheSize, nil, fileTTL),
	}
}

// UserRepos is the cached variant of Client.UserRepos
func (cc *CachedClient) UserRepos(ctx context.Context, login string, max int) ([]Repo, error) {
	key := fmt.Sprintf("%s|%d", login, max)
	if v, ok := cc.repos.Get(key); ok {
		return v, nil
	}
	v, err := cc.c.UserRepos(ctx, login, max)
	if err != nil {
		return nil, err
	}
	cc.repos.Add(key, v)
	return v, nil
}

// RepoTree is the cached variant of Client.RepoTree. A fresh entry is
// served as is; a stale one is revalidated with its stored etag, and a
// 304 renews the entry without paying for the tree body again.
func (cc *CachedClient) RepoTree(ctx context.Context, fullName, branch string) (Tree, error) {
	key := fullName + "@" + branch
	ent, ok := cc.trees.Get(key)
	if ok && cc.now().Sub(ent.fetched) < treeTTL {
		return ent.tree, nil
	}

	var etag string
	if ok {
		etag = ent.etag
	}
	v, etagOut, notModified, err := cc.c.RepoTree(ctx, fullName, branch, etag)
	if err != nil {
		return Tree{}, err
	}
	if notModified {
		if etagOut == "" {
			etagOut = ent.etag
		}
		cc.trees.Add(key, treeEntry{tree: ent.tree, etag: etagOut, fetched: cc.now()})
		return ent.tree, nil
	}
	cc.trees.Add(key, treeEntry{tree: v, etag: etagOut, fetched: cc.now()})
	return v, nil
}

// RawFile is the cached variant of Client.RawFile. Misses and oversize
// rejections are not cached; only fetched content is.
func (cc *CachedClient) RawFile(ctx context.Context, fullName, branch, path string, maxBytes int64) ([]byte, error) {
	key := fmt.Sprintf("%s@%s/%s", fullName, branch, path)
	if v, ok := cc.files.Get(key); ok {
		return v, nil
	}
	v, err := cc.c.RawFile(ctx, fullName, branch, path, maxBytes)
	if err != nil {
		return nil, err
	}
	cc.files.Add(key, v)
	return v, nil
}
