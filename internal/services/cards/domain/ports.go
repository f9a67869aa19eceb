package domain

import (
	"context"

	gh "gitcards/internal/adapters/ingest/github"
)

// ContentSource is the upstream needed to build cards.
// Satisfied by the cached GitHub client.
type ContentSource interface {
	UserRepos(ctx context.Context, login string, max int) ([]gh.Repo, error)
	RepoTree(ctx context.Context, fullName, branch string) (gh.Tree, error)
	RawFile(ctx context.Context, fullName, branch, path string, maxBytes int64) ([]byte, error)
}

// CardService is the port exposed to transports and other modules
type CardService interface {
	IdentifierCard(ctx context.Context, in IdentifierCardInput) (*IdentifierCard, error)
	LanguageCard(ctx context.Context, in LanguageCardInput) (*LanguageCard, error)
}
