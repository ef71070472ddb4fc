// Package google_tools provides MCP tools for Google OAuth authentication.
//
// The OAuth flow:
//  1. A calendar tool reports a missing token
//  2. Call google_get_auth_url to get the authorization URL
//  3. The user visits the URL and authorizes calendar access
//  4. The user provides the authorization code
//  5. Call google_save_auth_code with the code to save the token
//
// The saved token is refreshed automatically. These tools are only
// registered when calendars come from Google.
package google_tools
