package calendar_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotfinder/internal/scheduling"
	"github.com/teemow/slotfinder/internal/server"
	"github.com/teemow/slotfinder/internal/tools/common"
)

// RegisterConflictTools registers the conflict check tools.
func RegisterConflictTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	checkConflictsTool := mcp.NewTool("calendar_check_conflicts",
		mcp.WithDescription("Check whether a proposed time range conflicts with events on one calendar"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("startTime",
			mcp.Required(),
			mcp.Description("Proposed start (RFC3339 format, e.g., '2025-01-15T10:00:00Z')"),
		),
		mcp.WithString("endTime",
			mcp.Required(),
			mcp.Description("Proposed end (RFC3339 format, e.g., '2025-01-15T11:00:00Z')"),
		),
	)

	s.AddTool(checkConflictsTool, common.InstrumentedToolHandler("calendar_check_conflicts", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckConflicts(ctx, request, sc)
		}))

	checkAllTool := mcp.NewTool("calendar_check_conflicts_all",
		mcp.WithDescription(checkAllDescription(sc.Service().Config().NearbyBuffer)),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("startTime",
			mcp.Required(),
			mcp.Description("Proposed start (RFC3339 format)"),
		),
		mcp.WithString("endTime",
			mcp.Required(),
			mcp.Description("Proposed end (RFC3339 format)"),
		),
		mcp.WithString("excludeEventId",
			mcp.Description("Event ID to ignore, typically the event being moved"),
		),
	)

	s.AddTool(checkAllTool, common.InstrumentedToolHandler("calendar_check_conflicts_all", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckConflictsAll(ctx, request, sc)
		}))

	return nil
}

func handleCheckConflicts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	startTime, err := common.RequiredStringArg(args, "startTime")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endTime, err := common.RequiredStringArg(args, "endTime")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	calendarID := common.StringArg(args, "calendarId", scheduling.PrimaryCalendarID)

	result, err := sc.Service().CheckEventConflicts(ctx, scheduling.ConflictCheckRequest{
		Account:    account,
		CalendarID: calendarID,
		StartTime:  startTime,
		EndTime:    endTime,
	})
	if err != nil {
		return toolError("check conflicts", account, err), nil
	}

	if inv := common.InvocationFromContext(ctx); inv != nil {
		inv.WithTarget(calendarID, "")
		inv.Conflicts = len(result.ConflictingEvents)
	}
	return common.JSONResult(result)
}

func handleCheckConflictsAll(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	startTime, err := common.RequiredStringArg(args, "startTime")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endTime, err := common.RequiredStringArg(args, "endTime")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	excludeEventID := common.StringArg(args, "excludeEventId", "")

	result, err := sc.Service().CheckEventConflictsAllCalendars(ctx, scheduling.AllCalendarsConflictRequest{
		Account:        account,
		StartTime:      startTime,
		EndTime:        endTime,
		ExcludeEventID: excludeEventID,
	})
	if err != nil {
		return toolError("check conflicts across calendars", account, err), nil
	}

	if inv := common.InvocationFromContext(ctx); inv != nil {
		inv.WithTarget("", excludeEventID)
		inv.Conflicts = len(result.ConflictingEvents)
	}
	return common.JSONResult(result)
}

func checkAllDescription(buffer time.Duration) string {
	desc := "Check a proposed time range against every calendar of the account."
	if buffer > 0 {
		desc += fmt.Sprintf(" Also reports events within %s of the range.", formatBuffer(buffer))
	}
	return desc
}

// formatBuffer renders whole minutes as "15 minutes" and anything else as a
// Go duration.
func formatBuffer(d time.Duration) string {
	if d%time.Minute != 0 {
		return d.String()
	}
	if m := int(d / time.Minute); m != 1 {
		return fmt.Sprintf("%d minutes", m)
	}
	return "1 minute"
}
