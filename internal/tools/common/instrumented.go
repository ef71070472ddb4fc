package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/logging"
	"github.com/teemow/slotfinder/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

type invocationKey struct{}

// InvocationFromContext returns the audit record of the running tool call,
// or nil outside InstrumentedToolHandler.
func InvocationFromContext(ctx context.Context) *instrumentation.ToolInvocation {
	ti, _ := ctx.Value(invocationKey{}).(*instrumentation.ToolInvocation)
	return ti
}

// InstrumentedToolHandler wraps a tool handler with a tracing span, tool
// metrics and audit logging. Handlers can enrich the audit record through
// InvocationFromContext.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		account := GetAccountFromArgs(request.GetArguments())

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithAccount(logging.AnonymizeEmail(account)).
				WithReadOnly(sc.ReadOnly()).
				Build()...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithAccount(account).
			WithSpanContext(ctx)
		ctx = context.WithValue(ctx, invocationKey{}, invocation)

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.Complete(false, err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			resultErr := errors.New(resultText(result))
			invocation.Complete(false, resultErr)
			instrumentation.SetSpanError(span, resultErr)
		default:
			invocation.Complete(true, nil)
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocationWithAccount(ctx, toolName, status, instrumentation.ExtractUserDomain(account), duration)
		sc.AuditLogger().LogToolInvocation(ctx, invocation)

		return result, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := mcp.AsTextContent(c); ok {
			return text.Text
		}
	}
	return "tool returned an error result"
}
