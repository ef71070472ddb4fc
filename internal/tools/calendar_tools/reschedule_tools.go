package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/scheduling"
	"github.com/teemow/slotfinder/internal/server"
	"github.com/teemow/slotfinder/internal/tools/common"
)

// RegisterRescheduleTools registers the suggestion tool and, unless
// readOnly, the apply tool.
func RegisterRescheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	suggestTool := mcp.NewTool("calendar_suggest_reschedule",
		mcp.WithDescription("Suggest conflict-free alternative times for an existing event, checked against all calendars and ranked by preference"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("ID of the event to reschedule"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar containing the event (default: 'primary')"),
		),
		mcp.WithString("preferredTimeOfDay",
			mcp.Description("Preferred time of day (default: 'any')"),
			mcp.Enum(
				string(availability.Morning),
				string(availability.Afternoon),
				string(availability.Evening),
				string(availability.AnyTime),
			),
		),
		mcp.WithNumber("daysToSearch",
			mcp.Description("Number of days to search starting tomorrow (default: 7, max: 60)"),
		),
		mcp.WithBoolean("excludeWeekends",
			mcp.Description("Skip Saturdays and Sundays (default: false)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for day boundaries and hours (default: the calendar's time zone)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of suggestions (default: 5)"),
		),
	)

	s.AddTool(suggestTool, common.InstrumentedToolHandler("calendar_suggest_reschedule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSuggestReschedule(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	applyTool := mcp.NewTool("calendar_apply_reschedule",
		mcp.WithDescription("Move an event to a new time. Only the start and end times are changed."),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("ID of the event to move"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar containing the event (default: 'primary')"),
		),
		mcp.WithString("newStartTime",
			mcp.Required(),
			mcp.Description("New start (RFC3339 format)"),
		),
		mcp.WithString("newEndTime",
			mcp.Required(),
			mcp.Description("New end (RFC3339 format)"),
		),
	)

	s.AddTool(applyTool, common.InstrumentedToolHandler("calendar_apply_reschedule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleApplyReschedule(ctx, request, sc)
		}))

	return nil
}

func handleSuggestReschedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	eventID, err := common.RequiredStringArg(args, "eventId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	days, err := common.IntArg(args, "daysToSearch", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxResults, err := common.IntArg(args, "maxResults", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	excludeWeekends, err := common.BoolArg(args, "excludeWeekends")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	calendarID := common.StringArg(args, "calendarId", scheduling.PrimaryCalendarID)

	result, err := sc.Service().FindRescheduleSuggestions(ctx, scheduling.RescheduleRequest{
		Account:            account,
		EventID:            eventID,
		CalendarID:         calendarID,
		PreferredTimeOfDay: common.StringArg(args, "preferredTimeOfDay", ""),
		DaysToSearch:       days,
		ExcludeWeekends:    excludeWeekends,
		TimeZone:           common.StringArg(args, "timeZone", ""),
		MaxResults:         maxResults,
	})
	if err != nil {
		return toolError("find reschedule suggestions", account, err), nil
	}

	if inv := common.InvocationFromContext(ctx); inv != nil {
		inv.WithTarget(calendarID, eventID)
		inv.Suggestions = len(result.Suggestions)
	}
	return common.JSONResult(result)
}

func handleApplyReschedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.ReadOnly() {
		return mcp.NewToolResultError("calendar_apply_reschedule is disabled in read-only mode (start the server with --yolo)"), nil
	}

	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	eventID, err := common.RequiredStringArg(args, "eventId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newStart, err := common.RequiredStringArg(args, "newStartTime")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newEnd, err := common.RequiredStringArg(args, "newEndTime")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	calendarID := common.StringArg(args, "calendarId", scheduling.PrimaryCalendarID)

	result, err := sc.Service().ApplyReschedule(ctx, scheduling.ApplyRescheduleRequest{
		Account:    account,
		EventID:    eventID,
		CalendarID: calendarID,
		NewStart:   newStart,
		NewEnd:     newEnd,
	})
	if err != nil {
		return toolError("reschedule event", account, err), nil
	}

	if inv := common.InvocationFromContext(ctx); inv != nil {
		inv.WithTarget(calendarID, eventID)
	}
	return common.JSONResult(result)
}
