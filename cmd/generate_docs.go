package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/slotfinder/internal/scheduling"
	"github.com/teemow/slotfinder/internal/server"
	"github.com/teemow/slotfinder/internal/tools/calendar_tools"
	"github.com/teemow/slotfinder/internal/tools/google_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, so the documentation always matches the tool definitions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			markdown, err := generateDocs()
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// generateDocs registers every tool, including write tools, on a throwaway
// server and renders them as markdown. No calendar is contacted.
func generateDocs() (string, error) {
	offline := scheduling.ProviderFactoryFunc(func(context.Context, string) (scheduling.Provider, error) {
		return nil, errors.New("documentation server has no calendar backend")
	})
	serverContext, err := server.NewServerContext(context.Background(), scheduling.NewService(offline, nil), "docs", false)
	if err != nil {
		return "", fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("slotfinder", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext, false); err != nil {
		return "", fmt.Errorf("failed to register calendar tools: %w", err)
	}
	if err := google_tools.RegisterGoogleTools(mcpSrv, serverContext); err != nil {
		return "", fmt.Errorf("failed to register google tools: %w", err)
	}

	serverTools := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})

	return generateToolsMarkdown(tools), nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document lists the tools available when running slotfinder as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Accounts and modes\n\n")
	sb.WriteString("- **Accounts:** every tool accepts an optional `account` argument naming the Google account (default: `default`)\n")
	sb.WriteString("- **Time format:** all timestamps are RFC3339, e.g. `2025-01-15T10:00:00Z`\n")
	sb.WriteString("- **Write tools:** `calendar_apply_reschedule` is only available when the server runs with `--yolo`\n")
	sb.WriteString("- **Google tools:** the `google_*` tools are only registered for the Google Calendar backend\n\n")

	for _, category := range toolCategories {
		var matched []mcp.Tool
		for _, tool := range tools {
			if strings.HasPrefix(tool.Name, category.prefix) {
				matched = append(matched, tool)
			}
		}
		if len(matched) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("## %s\n\n", category.title))
		for _, tool := range matched {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

var toolCategories = []struct {
	prefix string
	title  string
}{
	{prefix: "calendar_", title: "Calendar Tools"},
	{prefix: "google_", title: "Google Account Tools"},
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))

	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			propMap, ok := tool.InputSchema.Properties[name].(map[string]interface{})
			if !ok {
				continue
			}

			requiredStr := "optional"
			if slices.Contains(tool.InputSchema.Required, name) {
				requiredStr = "required"
			}

			sb.WriteString(fmt.Sprintf("- `%s` (%s, %s): ", name, getPropertyType(propMap), requiredStr))
			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			}
			if values, ok := propMap["enum"].([]string); ok && len(values) > 0 {
				sb.WriteString(fmt.Sprintf(" One of: `%s`.", strings.Join(values, "`, `")))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func getPropertyType(prop map[string]interface{}) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}
