package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools wires every device capability as a named MCP tool.
// Handlers live in handlers.go; every one of them goes through the
// dispatch wrapper in dispatch.go.
func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_available_devices",
			mcp.WithDescription("List all available devices. This includes both physical devices and simulators/emulators. If there is more than one device returned, you need to pick one and call the use_device tool."),
		),
		s.dispatch("list_available_devices", false, s.handleListDevices),
	)

	s.mcp.AddTool(
		mcp.NewTool("use_device",
			mcp.WithDescription("Select a device to use. This can be a simulator or an Android/iOS device. Must be called before any other device-specific tool."),
			mcp.WithString("device", mcp.Required(), mcp.Description("The id of the device to select")),
			mcp.WithString("deviceType", mcp.Required(), mcp.Description("The type of device to select: 'android', 'ios' or 'simulator'")),
		),
		s.dispatch("use_device", false, s.handleUseDevice),
	)

	s.mcp.AddTool(
		mcp.NewTool("list_apps_on_device",
			mcp.WithDescription("List all the installed apps on the device"),
		),
		s.dispatch("list_apps_on_device", true, s.handleListApps),
	)

	s.mcp.AddTool(
		mcp.NewTool("launch_app",
			mcp.WithDescription("Launch an app on the device"),
			mcp.WithString("packageName", mcp.Required(), mcp.Description("The package name (Android) or bundle identifier (iOS) of the app to launch")),
		),
		s.dispatch("launch_app", true, s.handleLaunchApp),
	)

	s.mcp.AddTool(
		mcp.NewTool("terminate_app",
			mcp.WithDescription("Stop and terminate an app on the device"),
			mcp.WithString("packageName", mcp.Required(), mcp.Description("The package name (Android) or bundle identifier (iOS) of the app to terminate")),
		),
		s.dispatch("terminate_app", true, s.handleTerminateApp),
	)

	s.mcp.AddTool(
		mcp.NewTool("install_app",
			mcp.WithDescription("Install an app on the device from a local path (.apk on Android, .app bundle or .zip archive on iOS)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Local filesystem path of the app package to install")),
		),
		s.dispatch("install_app", true, s.handleInstallApp),
	)

	s.mcp.AddTool(
		mcp.NewTool("uninstall_app",
			mcp.WithDescription("Uninstall an app from the device"),
			mcp.WithString("packageName", mcp.Required(), mcp.Description("The package name (Android) or bundle identifier (iOS) of the app to uninstall")),
		),
		s.dispatch("uninstall_app", true, s.handleUninstallApp),
	)

	s.mcp.AddTool(
		mcp.NewTool("get_screen_size",
			mcp.WithDescription("Get the screen size of the device in pixels"),
		),
		s.dispatch("get_screen_size", true, s.handleGetScreenSize),
	)

	s.mcp.AddTool(
		mcp.NewTool("click_on_screen_at_coordinates",
			mcp.WithDescription("Click on the screen at the given coordinates. Coordinates are normalized to the range 0..1, where (0,0) is the top-left corner of the screen."),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("The x coordinate as a fraction of the screen width (0..1)")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("The y coordinate as a fraction of the screen height (0..1)")),
		),
		s.dispatch("click_on_screen_at_coordinates", true, s.handleTap),
	)

	s.mcp.AddTool(
		mcp.NewTool("double_tap_on_screen_at_coordinates",
			mcp.WithDescription("Double tap on the screen at the given normalized coordinates (0..1)"),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("The x coordinate as a fraction of the screen width (0..1)")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("The y coordinate as a fraction of the screen height (0..1)")),
		),
		s.dispatch("double_tap_on_screen_at_coordinates", true, s.handleDoubleTap),
	)

	s.mcp.AddTool(
		mcp.NewTool("long_press_on_screen_at_coordinates",
			mcp.WithDescription("Long press on the screen at the given normalized coordinates (0..1)"),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("The x coordinate as a fraction of the screen width (0..1)")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("The y coordinate as a fraction of the screen height (0..1)")),
			mcp.WithNumber("duration", mcp.Description("Press duration in milliseconds, default 500")),
		),
		s.dispatch("long_press_on_screen_at_coordinates", true, s.handleLongPress),
	)

	s.mcp.AddTool(
		mcp.NewTool("swipe_on_screen",
			mcp.WithDescription("Swipe on the screen in the given direction"),
			mcp.WithString("direction", mcp.Required(), mcp.Description("The direction to swipe: 'up', 'down', 'left' or 'right'")),
		),
		s.dispatch("swipe_on_screen", true, s.handleSwipe),
	)

	s.mcp.AddTool(
		mcp.NewTool("swipe_on_screen_at_coordinates",
			mcp.WithDescription("Swipe on the screen starting at the given normalized coordinates (0..1) in the given direction"),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("The x coordinate as a fraction of the screen width (0..1)")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("The y coordinate as a fraction of the screen height (0..1)")),
			mcp.WithString("direction", mcp.Required(), mcp.Description("The direction to swipe: 'up', 'down', 'left' or 'right'")),
			mcp.WithNumber("distance", mcp.Description("Swipe distance as a fraction of the screen dimension (0..1), default 0.3")),
		),
		s.dispatch("swipe_on_screen_at_coordinates", true, s.handleSwipeFromCoordinate),
	)

	s.mcp.AddTool(
		mcp.NewTool("type_text",
			mcp.WithDescription("Type text into the focused element on the device"),
			mcp.WithString("text", mcp.Required(), mcp.Description("The text to type")),
			mcp.WithBoolean("submit", mcp.Description("Whether to submit the text by pressing Enter after typing")),
		),
		s.dispatch("type_text", true, s.handleTypeText),
	)

	s.mcp.AddTool(
		mcp.NewTool("press_button",
			mcp.WithDescription("Press a hardware or navigation button on the device"),
			mcp.WithString("button", mcp.Required(), mcp.Description("The button to press: HOME, BACK, VOLUME_UP, VOLUME_DOWN, ENTER, or DPAD_UP/DOWN/LEFT/RIGHT/CENTER on TV devices")),
		),
		s.dispatch("press_button", true, s.handlePressButton),
	)

	s.mcp.AddTool(
		mcp.NewTool("open_url",
			mcp.WithDescription("Open a URL in the device's default browser or scheme handler"),
			mcp.WithString("url", mcp.Required(), mcp.Description("The URL to open")),
		),
		s.dispatch("open_url", true, s.handleOpenURL),
	)

	s.mcp.AddTool(
		mcp.NewTool("list_elements_on_screen",
			mcp.WithDescription("List elements on screen and their coordinates, with display text or accessibility label. Do not cache this result."),
		),
		s.dispatch("list_elements_on_screen", true, s.handleListElements),
	)

	s.mcp.AddTool(
		mcp.NewTool("take_device_screenshot",
			mcp.WithDescription("Take a screenshot of the device screen. Returns a JPEG image."),
		),
		s.dispatch("take_device_screenshot", true, s.handleScreenshot),
	)

	s.mcp.AddTool(
		mcp.NewTool("save_screenshot",
			mcp.WithDescription("Take a screenshot of the device screen and save it as a PNG file on the local machine"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Local filesystem path to save the screenshot to")),
		),
		s.dispatch("save_screenshot", true, s.handleSaveScreenshot),
	)

	s.mcp.AddTool(
		mcp.NewTool("get_orientation",
			mcp.WithDescription("Get the current screen orientation of the device"),
		),
		s.dispatch("get_orientation", true, s.handleGetOrientation),
	)

	s.mcp.AddTool(
		mcp.NewTool("set_orientation",
			mcp.WithDescription("Change the screen orientation of the device"),
			mcp.WithString("orientation", mcp.Required(), mcp.Description("The desired orientation: 'portrait' or 'landscape'")),
		),
		s.dispatch("set_orientation", true, s.handleSetOrientation),
	)

	s.mcp.AddTool(
		mcp.NewTool("get_device_logs",
			mcp.WithDescription("Get recent log output from the device"),
			mcp.WithNumber("seconds", mcp.Description("How many seconds back to fetch logs for, default 60")),
		),
		s.dispatch("get_device_logs", true, s.handleDeviceLogs),
	)
}
