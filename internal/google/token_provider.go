package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider resolves OAuth tokens for accounts.
type TokenProvider interface {
	// GetTokenForAccount returns the token for the account, or an error
	// wrapping ErrTokenNotFound.
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the account.
	HasTokenForAccount(account string) bool
}

// FileTokenProvider reads tokens stored by SaveToken.
type FileTokenProvider struct{}

// NewFileTokenProvider creates a new file-based token provider.
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

func (p *FileTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	return LoadToken(account)
}

func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}
