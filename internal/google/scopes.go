package google

// CalendarScopes are the scopes requested during authorization. Events are
// patched when a reschedule is applied, so read-only access is not enough.
var CalendarScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/calendar",
}
