package google_tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestHandleGetAuthURL(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	result, err := handleGetAuthURL(context.Background(), request(map[string]interface{}{"account": "work"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := text(t, result)
	assert.Contains(t, out, `account "work"`)
	assert.Contains(t, out, "https://accounts.google.com/o/oauth2/auth")
	assert.Contains(t, out, "client_id=client-id")
	assert.Contains(t, out, "state=work")
	assert.Contains(t, out, "google_save_auth_code")
}

func TestHandleGetAuthURL_Errors(t *testing.T) {
	tests := []struct {
		name     string
		clientID string
		args     map[string]interface{}
		wantErr  string
	}{
		{
			name:    "client not configured",
			args:    map[string]interface{}{},
			wantErr: "GOOGLE_CLIENT_ID",
		},
		{
			name:     "invalid account name",
			clientID: "client-id",
			args:     map[string]interface{}{"account": "../etc"},
			wantErr:  "Cannot build authorization URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_CLIENT_ID", tt.clientID)
			t.Setenv("GOOGLE_CLIENT_SECRET", tt.clientID)

			result, err := handleGetAuthURL(context.Background(), request(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, text(t, result), tt.wantErr)
		})
	}
}

func TestHandleSaveAuthCode_Validation(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	result, err := handleSaveAuthCode(context.Background(), request(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "authCode is required", text(t, result))

	result, err = handleSaveAuthCode(context.Background(), request(map[string]interface{}{"authCode": "4/abc"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "Failed to save authorization code for account default")
}

func TestHandlers_NeverReturnGoErrors(t *testing.T) {
	for _, h := range []func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){handleGetAuthURL, handleSaveAuthCode} {
		result, err := h(context.Background(), request(nil))
		assert.NoError(t, err)
		assert.NotNil(t, result)
	}
}
