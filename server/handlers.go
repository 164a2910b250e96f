package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mobile-next/mobile-mcp/devices"
	"github.com/mobile-next/mobile-mcp/utils"
)

const screenshotJpegQuality = 75

func (s *Server) handleListDevices(args map[string]interface{}) (*mcp.CallToolResult, error) {
	infos, err := s.manager.ListDeviceInfo()
	if err != nil {
		return nil, err
	}

	if len(infos) == 0 {
		return textResult("No devices found. Connect a device or boot a simulator/emulator and try again.")
	}

	payload, err := json.Marshal(infos)
	if err != nil {
		return nil, err
	}

	return textResult("Found %d device(s): %s", len(infos), payload)
}

func (s *Server) handleUseDevice(args map[string]interface{}) (*mcp.CallToolResult, error) {
	id, err := argString(args, "device")
	if err != nil {
		return nil, err
	}

	deviceType, err := argString(args, "deviceType")
	if err != nil {
		return nil, err
	}

	robot, err := s.manager.UseDevice(id, deviceType)
	if err != nil {
		return nil, err
	}

	return textResult("Selected device: %s (%s %s)", robot.ID(), robot.Platform(), robot.DeviceType())
}

// selected returns the active robot. The dispatch wrapper already
// checked one exists; this re-fetch just keeps handlers honest about
// going through the manager.
func (s *Server) selected() (devices.Robot, error) {
	return s.manager.Selected()
}

func (s *Server) handleListApps(args map[string]interface{}) (*mcp.CallToolResult, error) {
	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	apps, err := robot.ListApps()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(apps)
	if err != nil {
		return nil, err
	}

	return textResult("Found %d app(s) on device: %s", len(apps), payload)
}

func (s *Server) handleLaunchApp(args map[string]interface{}) (*mcp.CallToolResult, error) {
	packageName, err := argString(args, "packageName")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.LaunchApp(packageName); err != nil {
		return nil, err
	}

	return textResult("Launched app %s", packageName)
}

func (s *Server) handleTerminateApp(args map[string]interface{}) (*mcp.CallToolResult, error) {
	packageName, err := argString(args, "packageName")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.TerminateApp(packageName); err != nil {
		return nil, err
	}

	return textResult("Terminated app %s", packageName)
}

func (s *Server) handleInstallApp(args map[string]interface{}) (*mcp.CallToolResult, error) {
	path, err := argString(args, "path")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.InstallApp(path); err != nil {
		return nil, err
	}

	return textResult("Installed app from %s", path)
}

func (s *Server) handleUninstallApp(args map[string]interface{}) (*mcp.CallToolResult, error) {
	packageName, err := argString(args, "packageName")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.UninstallApp(packageName); err != nil {
		return nil, err
	}

	return textResult("Uninstalled app %s", packageName)
}

func (s *Server) handleGetScreenSize(args map[string]interface{}) (*mcp.CallToolResult, error) {
	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	size, err := robot.ScreenSize()
	if err != nil {
		return nil, err
	}

	return textResult("Screen size is %dx%d pixels (scale %d)", size.Width, size.Height, size.Scale)
}

// pixelCoordinates converts normalized 0..1 fractions into pixels on
// the selected device's screen.
func (s *Server) pixelCoordinates(robot devices.Robot, x, y float64) (int, int, error) {
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return 0, 0, fmt.Errorf("coordinates must be normalized fractions in the range 0..1, got (%g, %g)", x, y)
	}

	size, err := robot.ScreenSize()
	if err != nil {
		return 0, 0, err
	}

	return pixelFromFraction(x, size.Width), pixelFromFraction(y, size.Height), nil
}

// pixelFromFraction scales a 0..1 fraction onto 0..size-1; a fraction
// of exactly 1 lands on the last addressable pixel, not one past it.
func pixelFromFraction(fraction float64, size int) int {
	px := int(fraction * float64(size))
	if px >= size {
		px = size - 1
	}
	return px
}

func (s *Server) handleTap(args map[string]interface{}) (*mcp.CallToolResult, error) {
	x, err := argFloat(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := argFloat(args, "y")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	px, py, err := s.pixelCoordinates(robot, x, y)
	if err != nil {
		return nil, err
	}

	if err := robot.Tap(px, py); err != nil {
		return nil, err
	}

	return textResult("Tapped on screen at %d,%d", px, py)
}

func (s *Server) handleDoubleTap(args map[string]interface{}) (*mcp.CallToolResult, error) {
	x, err := argFloat(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := argFloat(args, "y")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	px, py, err := s.pixelCoordinates(robot, x, y)
	if err != nil {
		return nil, err
	}

	if err := robot.DoubleTap(px, py); err != nil {
		return nil, err
	}

	return textResult("Double tapped on screen at %d,%d", px, py)
}

func (s *Server) handleLongPress(args map[string]interface{}) (*mcp.CallToolResult, error) {
	x, err := argFloat(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := argFloat(args, "y")
	if err != nil {
		return nil, err
	}

	duration := time.Duration(argFloatDefault(args, "duration", 0)) * time.Millisecond

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	px, py, err := s.pixelCoordinates(robot, x, y)
	if err != nil {
		return nil, err
	}

	if err := robot.LongPress(px, py, duration); err != nil {
		return nil, err
	}

	return textResult("Long pressed on screen at %d,%d", px, py)
}

func (s *Server) handleSwipe(args map[string]interface{}) (*mcp.CallToolResult, error) {
	direction, err := argString(args, "direction")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.Swipe(direction); err != nil {
		return nil, err
	}

	return textResult("Swiped %s on screen", direction)
}

func (s *Server) handleSwipeFromCoordinate(args map[string]interface{}) (*mcp.CallToolResult, error) {
	x, err := argFloat(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := argFloat(args, "y")
	if err != nil {
		return nil, err
	}
	direction, err := argString(args, "direction")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	px, py, err := s.pixelCoordinates(robot, x, y)
	if err != nil {
		return nil, err
	}

	// distance is a fraction of the dimension the swipe travels along
	distance := 0
	if fraction := argFloatDefault(args, "distance", 0); fraction > 0 {
		if fraction > 1 {
			return nil, fmt.Errorf("distance must be a fraction in the range 0..1, got %g", fraction)
		}

		size, err := robot.ScreenSize()
		if err != nil {
			return nil, err
		}

		switch direction {
		case devices.SwipeLeft, devices.SwipeRight:
			distance = int(fraction * float64(size.Width))
		default:
			distance = int(fraction * float64(size.Height))
		}
	}

	if err := robot.SwipeFromCoordinate(px, py, direction, distance); err != nil {
		return nil, err
	}

	return textResult("Swiped %s from %d,%d", direction, px, py)
}

func (s *Server) handleTypeText(args map[string]interface{}) (*mcp.CallToolResult, error) {
	text, err := argString(args, "text")
	if err != nil {
		return nil, err
	}
	submit := argBoolDefault(args, "submit", false)

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.SendKeys(text); err != nil {
		return nil, err
	}

	if submit {
		if err := robot.PressButton("ENTER"); err != nil {
			return nil, err
		}
	}

	return textResult("Typed text: %s", text)
}

func (s *Server) handlePressButton(args map[string]interface{}) (*mcp.CallToolResult, error) {
	button, err := argString(args, "button")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.PressButton(button); err != nil {
		return nil, err
	}

	return textResult("Pressed button: %s", button)
}

func (s *Server) handleOpenURL(args map[string]interface{}) (*mcp.CallToolResult, error) {
	url, err := argString(args, "url")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.OpenURL(url); err != nil {
		return nil, err
	}

	return textResult("Opened URL: %s", url)
}

func (s *Server) handleListElements(args map[string]interface{}) (*mcp.CallToolResult, error) {
	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	elements, err := robot.ElementsOnScreen()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(elements)
	if err != nil {
		return nil, err
	}

	return textResult("Found these elements on screen: %s", payload)
}

func (s *Server) handleScreenshot(args map[string]interface{}) (*mcp.CallToolResult, error) {
	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	pngBytes, err := robot.TakeScreenshot()
	if err != nil {
		return nil, err
	}

	jpegBytes, err := utils.ConvertPngToJpeg(pngBytes, screenshotJpegQuality)
	if err != nil {
		return nil, err
	}

	utils.Verbose("screenshot: %d bytes png, %d bytes jpeg", len(pngBytes), len(jpegBytes))
	encoded := base64.StdEncoding.EncodeToString(jpegBytes)
	return mcp.NewToolResultImage("screenshot", encoded, "image/jpeg"), nil
}

func (s *Server) handleSaveScreenshot(args map[string]interface{}) (*mcp.CallToolResult, error) {
	path, err := argString(args, "path")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	pngBytes, err := robot.TakeScreenshot()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, pngBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save screenshot: %w", err)
	}

	return textResult("Screenshot saved to %s", path)
}

func (s *Server) handleGetOrientation(args map[string]interface{}) (*mcp.CallToolResult, error) {
	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	orientation, err := robot.GetOrientation()
	if err != nil {
		return nil, err
	}

	return textResult("Device orientation is %s", orientation)
}

func (s *Server) handleSetOrientation(args map[string]interface{}) (*mcp.CallToolResult, error) {
	orientation, err := argString(args, "orientation")
	if err != nil {
		return nil, err
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	if err := robot.SetOrientation(orientation); err != nil {
		return nil, err
	}

	return textResult("Device orientation set to %s", orientation)
}

func (s *Server) handleDeviceLogs(args map[string]interface{}) (*mcp.CallToolResult, error) {
	seconds := argFloatDefault(args, "seconds", 60)
	if seconds <= 0 {
		return nil, fmt.Errorf("seconds must be positive, got %g", seconds)
	}

	robot, err := s.selected()
	if err != nil {
		return nil, err
	}

	logs, err := robot.DeviceLogs(time.Duration(seconds) * time.Second)
	if err != nil {
		return nil, err
	}

	if len(logs) == 0 {
		return textResult("No device logs in the last %g seconds", seconds)
	}

	var sb strings.Builder
	for _, entry := range logs {
		fmt.Fprintf(&sb, "%s %s/%s(%d): %s\n",
			entry.Timestamp.Format("15:04:05.000"), entry.Level, entry.Tag, entry.PID, entry.Text)
	}

	return textResult("%s", sb.String())
}
