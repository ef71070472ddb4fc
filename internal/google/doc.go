// Package google provides OAuth2 credentials for the Google Calendar API.
//
// Tokens are stored per account in the user cache directory, one JSON file
// per account. The TokenProvider interface lets the calendar adapter resolve
// credentials without knowing where they live.
//
// The OAuth client is configured through GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET. Without them stored tokens are still usable until
// they expire, but cannot be refreshed.
package google
