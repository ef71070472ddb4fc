package calendar

import (
	"context"

	"google.golang.org/api/option"

	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/scheduling"
)

// ProviderFactory builds a Google Calendar client per account.
type ProviderFactory struct {
	tokens google.TokenProvider
	opts   []option.ClientOption
}

var _ scheduling.ProviderFactory = (*ProviderFactory)(nil)

// NewProviderFactory returns a factory resolving tokens through tokens.
// opts are passed to every client.
func NewProviderFactory(tokens google.TokenProvider, opts ...option.ClientOption) *ProviderFactory {
	return &ProviderFactory{tokens: tokens, opts: opts}
}

// ProviderFor returns a client for account. An empty account selects the
// default account.
func (f *ProviderFactory) ProviderFor(ctx context.Context, account string) (scheduling.Provider, error) {
	if account == "" {
		account = google.DefaultAccount
	}
	return NewClient(ctx, account, f.tokens, f.opts...)
}
