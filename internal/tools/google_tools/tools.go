package google_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/server"
	"github.com/teemow/slotfinder/internal/tools/common"
)

// RegisterGoogleTools registers the Google OAuth tools with the MCP server.
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getAuthURLTool := mcp.NewTool("google_get_auth_url",
		mcp.WithDescription("Get the OAuth URL to authorize Google Calendar access for a specific account"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(getAuthURLTool, common.InstrumentedToolHandler("google_get_auth_url", sc, handleGetAuthURL))

	saveAuthCodeTool := mcp.NewTool("google_save_auth_code",
		mcp.WithDescription("Save the OAuth authorization code to complete Google Calendar authentication for a specific account"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("The authorization code from Google OAuth"),
		),
	)

	s.AddTool(saveAuthCodeTool, common.InstrumentedToolHandler("google_save_auth_code", sc, handleSaveAuthCode))

	return nil
}

func handleGetAuthURL(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account := common.GetAccountFromArgs(request.GetArguments())

	authURL, err := google.AuthURL(account)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Cannot build authorization URL for account %s: %v", account, err)), nil
	}

	result := fmt.Sprintf(`To authorize Google Calendar access for account "%s":

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant calendar access
4. Copy the authorization code

5. Call the google_save_auth_code tool with the code and account name to complete authentication`, account, authURL)

	return mcp.NewToolResultText(result), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	authCode, err := common.RequiredStringArg(args, "authCode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := google.ExchangeAndSave(ctx, account, authCode); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save authorization code for account %s: %v", account, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Authorization successful for account '%s'. The calendar tools can now use this account.", account)), nil
}
