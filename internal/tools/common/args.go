package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StringArg returns a trimmed string argument or def.
func StringArg(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return def
}

// RequiredStringArg returns a trimmed, non-empty string argument.
func RequiredStringArg(args map[string]interface{}, key string) (string, error) {
	v := StringArg(args, key, "")
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// IntArg returns a whole-number argument or def. JSON numbers arrive as
// float64; fractional values and values outside the int32 range are
// rejected.
func IntArg(args map[string]interface{}, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be a whole number in range", key)
	}
	return int(f), nil
}

// BoolArg returns a boolean argument, or nil when it is absent.
func BoolArg(args map[string]interface{}, key string) (*bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &b, nil
}

// JSONResult renders v as an indented JSON text result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	result, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(result)), nil
}
