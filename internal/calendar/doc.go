// Package calendar adapts the Google Calendar API to the scheduling.Provider
// interface.
//
// A Client is bound to one account. ProviderFactory resolves the account's
// OAuth token through a google.TokenProvider and builds a Client per call:
//
//	factory := calendar.NewProviderFactory(google.NewFileTokenProvider())
//	p, err := factory.ProviderFor(ctx, "work")
//	if err != nil {
//		return err
//	}
//	events, err := p.ListEvents(ctx, "primary", time.Now(), time.Now().AddDate(0, 0, 7))
//
// Events are always listed with singleEvents=true, so recurring events arrive
// as individual instances. Not-found responses are reported as
// scheduling.ErrEventNotFound or scheduling.ErrCalendarNotFound.
package calendar
