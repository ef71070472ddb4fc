package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// isolate points the cache directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv(envClientID, "")
	t.Setenv(envSecret, "")
	return dir
}

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with at sign", "me@example.com", true},
		{"with slash", "work/personal", true},
		{"with dot", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	dir := isolate(t)
	if _, err := os.UserCacheDir(); err != nil {
		t.Skipf("no user cache dir on this platform: %v", err)
	}

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, SaveToken("work", token))

	assert.True(t, HasTokenForAccount("work"))
	assert.False(t, HasTokenForAccount("personal"))

	loaded, err := LoadToken("work")
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	path, err := tokenFilePath("work")
	require.NoError(t, err)
	if strings.HasPrefix(path, dir) {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
	assert.Equal(t, "google-work.token", filepath.Base(path))
}

func TestLoadToken_Missing(t *testing.T) {
	isolate(t)

	_, err := LoadToken("")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Contains(t, err.Error(), DefaultAccount)

	_, err = LoadToken("bad name")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenNotFound)
}

func TestOAuthConfig(t *testing.T) {
	isolate(t)

	_, err := OAuthConfig()
	assert.ErrorIs(t, err, ErrClientNotConfigured)

	_, err = AuthURL("work")
	assert.ErrorIs(t, err, ErrClientNotConfigured)

	t.Setenv(envClientID, "client")
	t.Setenv(envSecret, "secret")

	conf, err := OAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, oobRedirectURL, conf.RedirectURL)
	assert.Contains(t, conf.Scopes, "https://www.googleapis.com/auth/calendar")

	url, err := AuthURL("work")
	require.NoError(t, err)
	assert.Contains(t, url, "client_id=client")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "state=work")
}

func TestTokenSource_WithoutClientIsStatic(t *testing.T) {
	isolate(t)

	token := &oauth2.Token{AccessToken: "static", Expiry: time.Now().Add(time.Hour)}
	got, err := TokenSource(context.Background(), token).Token()
	require.NoError(t, err)
	assert.Equal(t, "static", got.AccessToken)
}

func TestFileTokenProvider(t *testing.T) {
	isolate(t)
	p := NewFileTokenProvider()

	assert.False(t, p.HasTokenForAccount("default"))
	_, err := p.GetTokenForAccount(context.Background(), "default")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, SaveToken("", &oauth2.Token{AccessToken: "a"}))
	assert.True(t, p.HasTokenForAccount(""))
	tok, err := p.GetTokenForAccount(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
}
