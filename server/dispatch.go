package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mobile-next/mobile-mcp/utils"
)

// toolHandler is the signature every tool implementation uses once the
// dispatch wrapper has done its part.
type toolHandler func(args map[string]interface{}) (*mcp.CallToolResult, error)

// dispatch wraps a tool handler with the per-call pipeline: trace,
// precondition check, invoke, translate failures. Errors and panics
// become isError results carrying an "Error: " message; nothing from
// the robot layer ever reaches the transport as a protocol fault.
func (s *Server) dispatch(name string, needsDevice bool, handler toolHandler) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, retErr error) {
		traceID := uuid.NewString()[:8]
		args := request.GetArguments()
		utils.Verbose("[%s] tool call: %s %v", traceID, name, args)

		defer func() {
			if r := recover(); r != nil {
				utils.Warn("[%s] tool %s panicked: %v", traceID, name, r)
				result = errorResult(fmt.Errorf("%v", r))
				retErr = nil
			}
		}()

		if needsDevice {
			if _, err := s.manager.Selected(); err != nil {
				utils.Verbose("[%s] tool %s rejected: %v", traceID, name, err)
				return errorResult(err), nil
			}
		}

		result, err := handler(args)
		if err != nil {
			utils.Verbose("[%s] tool %s failed: %v", traceID, name, err)
			return errorResult(err), nil
		}

		utils.Verbose("[%s] tool %s ok", traceID, name)
		return result, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}

func textResult(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf(format, args...)), nil
}

// argument accessors; schema validation already ran, so these only
// guard against type mismatches

func argString(args map[string]interface{}, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid argument: %s", key)
	}
	return value, nil
}

func argFloat(args map[string]interface{}, key string) (float64, error) {
	value, ok := args[key].(float64)
	if !ok {
		return 0, fmt.Errorf("missing or invalid argument: %s", key)
	}
	return value, nil
}

func argFloatDefault(args map[string]interface{}, key string, fallback float64) float64 {
	if value, ok := args[key].(float64); ok {
		return value
	}
	return fallback
}

func argBoolDefault(args map[string]interface{}, key string, fallback bool) bool {
	if value, ok := args[key].(bool); ok {
		return value
	}
	return fallback
}
