package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultAccount is used when no account name is given.
const DefaultAccount = "default"

const (
	appCacheDir    = "slotfinder"
	envClientID    = "GOOGLE_CLIENT_ID"
	envSecret      = "GOOGLE_CLIENT_SECRET"
	envRedirectURL = "GOOGLE_REDIRECT_URL"
	oobRedirectURL = "urn:ietf:wg:oauth:2.0:oob"
)

var (
	// ErrTokenNotFound means no token is stored for the account.
	ErrTokenNotFound = errors.New("no Google OAuth token found")

	// ErrClientNotConfigured means the OAuth client credentials are missing.
	ErrClientNotConfigured = errors.New("google OAuth client not configured: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")

	accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// normalizeAccount maps an empty account to DefaultAccount and rejects names
// that are not safe to use in a file name.
func normalizeAccount(account string) (string, error) {
	if account == "" {
		return DefaultAccount, nil
	}
	if err := validateAccountName(account); err != nil {
		return "", err
	}
	return account, nil
}

func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: use letters, digits, '-' and '_' only", account)
	}
	return nil
}

// OAuthConfig returns the OAuth2 client configuration from the environment.
func OAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(envClientID)
	secret := os.Getenv(envSecret)
	if clientID == "" || secret == "" {
		return nil, ErrClientNotConfigured
	}
	redirect := os.Getenv(envRedirectURL)
	if redirect == "" {
		redirect = oobRedirectURL
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: secret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirect,
		Scopes:       CalendarScopes,
	}, nil
}

// tokenDir returns the directory holding token files.
func tokenDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(base, appCacheDir), nil
}

func tokenFilePath(account string) (string, error) {
	dir, err := tokenDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "google-"+account+".token"), nil
}

// HasTokenForAccount reports whether a token file exists for the account.
func HasTokenForAccount(account string) bool {
	account, err := normalizeAccount(account)
	if err != nil {
		return false
	}
	path, err := tokenFilePath(account)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// AuthURL returns the consent URL for the account. Offline access is
// requested so that a refresh token is issued.
func AuthURL(account string) (string, error) {
	account, err := normalizeAccount(account)
	if err != nil {
		return "", err
	}
	conf, err := OAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(account, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// ExchangeAndSave exchanges an authorization code and stores the token.
func ExchangeAndSave(ctx context.Context, account, code string) error {
	conf, err := OAuthConfig()
	if err != nil {
		return err
	}
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return SaveToken(account, token)
}

// SaveToken writes the token for the account with owner-only permissions.
func SaveToken(account string, token *oauth2.Token) error {
	account, err := normalizeAccount(account)
	if err != nil {
		return err
	}
	path, err := tokenFilePath(account)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadToken reads the stored token for the account.
func LoadToken(account string) (*oauth2.Token, error) {
	account, err := normalizeAccount(account)
	if err != nil {
		return nil, err
	}
	path, err := tokenFilePath(account)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w for account %q", ErrTokenNotFound, account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file for account %q: %w", account, err)
	}
	return &token, nil
}

// TokenSource returns a token source for the token. When the OAuth client is
// configured the source refreshes expired tokens, otherwise the token is
// used as is.
func TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	conf, err := OAuthConfig()
	if err != nil {
		return oauth2.StaticTokenSource(token)
	}
	return conf.TokenSource(ctx, token)
}

// HTTPClient returns an authenticated HTTP client for the token.
func HTTPClient(ctx context.Context, token *oauth2.Token) *http.Client {
	return oauth2.NewClient(ctx, TokenSource(ctx, token))
}
