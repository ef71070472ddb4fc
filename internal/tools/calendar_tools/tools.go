package calendar_tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/scheduling"
	"github.com/teemow/slotfinder/internal/server"
)

const accountDescription = "Account name (default: 'default'). Used to manage multiple Google accounts."

// RegisterCalendarTools registers the calendar tools with the MCP server.
// calendar_apply_reschedule is only registered when readOnly is false.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterConflictTools(s, sc); err != nil {
		return fmt.Errorf("failed to register conflict tools: %w", err)
	}

	if err := RegisterRescheduleTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register reschedule tools: %w", err)
	}

	return nil
}

// toolError converts a service error into an MCP error result.
func toolError(action, account string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, scheduling.ErrInvalidRequest):
		return mcp.NewToolResultError(err.Error())
	case errors.Is(err, google.ErrTokenNotFound):
		return mcp.NewToolResultError(authGuidance(account))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
	}
}

func authGuidance(account string) string {
	authURL, err := google.AuthURL(account)
	if err != nil {
		return fmt.Sprintf(`Google OAuth token not found for account %q and the OAuth client is not configured (%v).

Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET, then run:
   slotfinder auth --account %s`, account, err, account)
	}
	return fmt.Sprintf(`Google OAuth token not found for account %q. To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account and grant calendar access
3. Copy the authorization code
4. Call the google_save_auth_code tool with the code and account, or run:
   slotfinder auth --account %s --code <code>

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
}
