package server

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mobile-next/mobile-mcp/devices"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func callTool(t *testing.T, s *Server, name string, needsDevice bool, handler toolHandler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := s.dispatch(name, needsDevice, handler)(context.Background(), request)
	if err != nil {
		t.Fatalf("dispatch returned a protocol error: %v", err)
	}
	return result
}

func TestDispatch_NoDeviceSelected(t *testing.T) {
	s := &Server{manager: devices.NewManager()}

	result := callTool(t, s, "take_device_screenshot", true, func(args map[string]interface{}) (*mcp.CallToolResult, error) {
		t.Fatal("handler must not run without a selected device")
		return nil, nil
	}, nil)

	if !result.IsError {
		t.Error("expected isError result")
	}

	text := resultText(t, result)
	want := "Error: No device selected. Call the use_device tool first."
	if text != want {
		t.Errorf("result text = %q, want %q", text, want)
	}
}

func TestDispatch_HandlerErrorBecomesResult(t *testing.T) {
	s := &Server{manager: devices.NewManager()}

	result := callTool(t, s, "list_available_devices", false, func(args map[string]interface{}) (*mcp.CallToolResult, error) {
		return nil, errors.New("adb exploded")
	}, nil)

	if !result.IsError {
		t.Error("expected isError result")
	}
	if text := resultText(t, result); text != "Error: adb exploded" {
		t.Errorf("result text = %q", text)
	}
}

func TestDispatch_PanicBecomesResult(t *testing.T) {
	s := &Server{manager: devices.NewManager()}

	result := callTool(t, s, "list_available_devices", false, func(args map[string]interface{}) (*mcp.CallToolResult, error) {
		panic("boom")
	}, nil)

	if !result.IsError {
		t.Error("expected isError result")
	}
	if text := resultText(t, result); !strings.HasPrefix(text, "Error: ") || !strings.Contains(text, "boom") {
		t.Errorf("result text = %q", text)
	}
}

func TestDispatch_Success(t *testing.T) {
	s := &Server{manager: devices.NewManager()}

	result := callTool(t, s, "list_available_devices", false, func(args map[string]interface{}) (*mcp.CallToolResult, error) {
		return textResult("all good")
	}, nil)

	if result.IsError {
		t.Error("unexpected isError result")
	}
	if text := resultText(t, result); text != "all good" {
		t.Errorf("result text = %q", text)
	}
}

func TestPixelFromFraction(t *testing.T) {
	tests := []struct {
		fraction float64
		size     int
		want     int
	}{
		{0, 1080, 0},
		{0.5, 1080, 540},
		{0.999, 1080, 1078},
		{1, 1080, 1079}, // edge taps land on the last pixel
		{1, 2400, 2399},
	}

	for _, tt := range tests {
		if got := pixelFromFraction(tt.fraction, tt.size); got != tt.want {
			t.Errorf("pixelFromFraction(%g, %d) = %d, want %d", tt.fraction, tt.size, got, tt.want)
		}
	}
}

func TestArgAccessors(t *testing.T) {
	args := map[string]interface{}{
		"text":     "hello",
		"x":        0.5,
		"submit":   true,
		"badValue": 42, // json numbers always arrive as float64
	}

	if value, err := argString(args, "text"); err != nil || value != "hello" {
		t.Errorf("argString = %q, %v", value, err)
	}
	if _, err := argString(args, "missing"); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("argString should name the missing key, got %v", err)
	}

	if value, err := argFloat(args, "x"); err != nil || value != 0.5 {
		t.Errorf("argFloat = %g, %v", value, err)
	}
	if _, err := argFloat(args, "badValue"); err == nil {
		t.Error("argFloat should reject a non-float value")
	}

	if value := argFloatDefault(args, "missing", 30); value != 30 {
		t.Errorf("argFloatDefault fallback = %g, want 30", value)
	}
	if value := argBoolDefault(args, "submit", false); !value {
		t.Error("argBoolDefault should read the provided value")
	}
	if value := argBoolDefault(args, "missing", true); !value {
		t.Error("argBoolDefault should fall back when the key is absent")
	}
}
