package devices

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mobile-next/mobile-mcp/types"
	"github.com/mobile-next/mobile-mcp/utils"
)

// AndroidRobot implements the Robot interface over the adb binary.
type AndroidRobot struct {
	id      string
	name    string
	version string
	tv      bool

	// runner fields are swapped for fakes in tests
	run      commandRunner // regular adb commands
	runHeavy commandRunner // screenshot/dump/install: longer timeout, bigger buffer
}

// NewAndroidRobot creates a robot for an attached device identifier.
func NewAndroidRobot(id string) *AndroidRobot {
	d := &AndroidRobot{id: id}
	d.run = func(args ...string) ([]byte, error) {
		return runCommand(adbPath(), defaultCommandTimeout, defaultOutputLimit, append([]string{"-s", d.id}, args...)...)
	}
	d.runHeavy = func(args ...string) ([]byte, error) {
		return runCommand(adbPath(), heavyCommandTimeout, screenshotOutputLimit, append([]string{"-s", d.id}, args...)...)
	}
	return d
}

// adbPath resolves the adb binary: explicit override, then the SDK
// install, then PATH.
func adbPath() string {
	if envPath := os.Getenv("ADB_PATH"); envPath != "" {
		return envPath
	}

	if sdkPath := os.Getenv("ANDROID_HOME"); sdkPath != "" {
		path := filepath.Join(sdkPath, "platform-tools", "adb")
		if runtime.GOOS == "windows" {
			path += ".exe"
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "adb"
}

func (d *AndroidRobot) ID() string       { return d.id }
func (d *AndroidRobot) Name() string     { return d.name }
func (d *AndroidRobot) Platform() string { return "android" }
func (d *AndroidRobot) Version() string  { return d.version }

func (d *AndroidRobot) DeviceType() string {
	if strings.HasPrefix(d.id, "emulator-") {
		return "emulator"
	}
	return "real"
}

func (d *AndroidRobot) StartAgent() error {
	// android talks straight to adb, no on-device agent needed
	return nil
}

func (d *AndroidRobot) ScreenSize() (*types.ScreenSize, error) {
	output, err := d.run("shell", "wm", "size")
	if err != nil {
		return nil, fmt.Errorf("failed to query screen size: %v", err)
	}

	// "Physical size: 1080x2400", possibly followed by an override line
	size := ""
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "Override size:"); ok {
			size = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Physical size:"); ok && size == "" {
			size = strings.TrimSpace(value)
		}
	}

	parts := strings.Split(size, "x")
	if len(parts) != 2 {
		return nil, fmt.Errorf("unexpected 'wm size' output: %q", strings.TrimSpace(string(output)))
	}

	width, err1 := strconv.Atoi(parts[0])
	height, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("unexpected 'wm size' output: %q", size)
	}

	return &types.ScreenSize{Width: width, Height: height, Scale: 1}, nil
}

func (d *AndroidRobot) TakeScreenshot() ([]byte, error) {
	// multi-display hardware needs an explicit display id; single
	// display devices keep the default capture path
	displayID := d.activeDisplayID()
	args := []string{"exec-out", "screencap", "-p"}
	if displayID != "" {
		args = append(args, "-d", displayID)
	}

	data, err := d.runHeavy(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %v", err)
	}

	return data, nil
}

func (d *AndroidRobot) ListApps() ([]types.InstalledApp, error) {
	output, err := d.run("shell", "pm", "list", "packages")
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %v", err)
	}

	seen := make(map[string]bool)
	var apps []types.InstalledApp
	for _, line := range strings.Split(string(output), "\n") {
		packageName, ok := strings.CutPrefix(strings.TrimSpace(line), "package:")
		if !ok || packageName == "" || seen[packageName] {
			continue
		}
		seen[packageName] = true
		apps = append(apps, types.InstalledApp{PackageName: packageName})
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].PackageName < apps[j].PackageName })
	return apps, nil
}

func (d *AndroidRobot) LaunchApp(packageName string) error {
	output, err := d.run("shell", "monkey", "-p", packageName, "-c", "android.intent.category.LAUNCHER", "1")
	if err != nil {
		return fmt.Errorf("failed to launch app %s: %v", packageName, err)
	}

	// monkey exits zero even when the package does not exist
	if strings.Contains(string(output), "No activities found") ||
		strings.Contains(string(output), "monkey aborted") {
		return fmt.Errorf("failed to launch app %s: %s", packageName, strings.TrimSpace(string(output)))
	}

	return nil
}

func (d *AndroidRobot) TerminateApp(packageName string) error {
	// force-stop is idempotent, stopping a stopped app is not an error
	_, err := d.run("shell", "am", "force-stop", packageName)
	if err != nil {
		return fmt.Errorf("failed to terminate app %s: %v", packageName, err)
	}

	return nil
}

func (d *AndroidRobot) InstallApp(path string) error {
	_, err := d.runHeavy("install", "-r", path)
	if err != nil {
		return fmt.Errorf("failed to install %s: %v", path, err)
	}

	return nil
}

func (d *AndroidRobot) UninstallApp(packageName string) error {
	_, err := d.run("uninstall", packageName)
	if err != nil {
		return fmt.Errorf("failed to uninstall %s: %v", packageName, err)
	}

	return nil
}

func (d *AndroidRobot) OpenURL(url string) error {
	_, err := d.run("shell", "am", "start", "-a", "android.intent.action.VIEW", "-d", url)
	if err != nil {
		return fmt.Errorf("failed to open url %s: %v", url, err)
	}

	return nil
}

func (d *AndroidRobot) Tap(x, y int) error {
	_, err := d.run("shell", "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	if err != nil {
		return fmt.Errorf("failed to tap at (%d,%d): %v", x, y, err)
	}

	return nil
}

func (d *AndroidRobot) DoubleTap(x, y int) error {
	if err := d.Tap(x, y); err != nil {
		return err
	}

	time.Sleep(doubleTapDelay)
	return d.Tap(x, y)
}

func (d *AndroidRobot) LongPress(x, y int, duration time.Duration) error {
	if duration <= 0 {
		duration = 500 * time.Millisecond
	}

	// a zero-distance swipe held for the duration
	_, err := d.run("shell", "input", "swipe",
		strconv.Itoa(x), strconv.Itoa(y), strconv.Itoa(x), strconv.Itoa(y),
		strconv.Itoa(int(duration.Milliseconds())))
	if err != nil {
		return fmt.Errorf("failed to long press at (%d,%d): %v", x, y, err)
	}

	return nil
}

func (d *AndroidRobot) Swipe(direction string) error {
	size, err := d.ScreenSize()
	if err != nil {
		return err
	}

	x1, y1, x2, y2, err := swipeEndpoints(size, direction)
	if err != nil {
		return err
	}

	return d.inputSwipe(x1, y1, x2, y2, 1000)
}

func (d *AndroidRobot) SwipeFromCoordinate(x, y int, direction string, distance int) error {
	size, err := d.ScreenSize()
	if err != nil {
		return err
	}

	x2, y2, err := swipeFromCoordinate(size, x, y, direction, distance)
	if err != nil {
		return err
	}

	return d.inputSwipe(clamp(x, 0, size.Width), clamp(y, 0, size.Height), x2, y2, 500)
}

func (d *AndroidRobot) inputSwipe(x1, y1, x2, y2, durationMs int) error {
	_, err := d.run("shell", "input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2),
		strconv.Itoa(durationMs))
	if err != nil {
		return fmt.Errorf("failed to swipe from (%d,%d) to (%d,%d): %v", x1, y1, x2, y2, err)
	}

	return nil
}

var androidKeyMap = map[string]string{
	"HOME":        "KEYCODE_HOME",
	"BACK":        "KEYCODE_BACK",
	"VOLUME_UP":   "KEYCODE_VOLUME_UP",
	"VOLUME_DOWN": "KEYCODE_VOLUME_DOWN",
	"ENTER":       "KEYCODE_ENTER",
	"DPAD_CENTER": "KEYCODE_DPAD_CENTER",
	"DPAD_UP":     "KEYCODE_DPAD_UP",
	"DPAD_DOWN":   "KEYCODE_DPAD_DOWN",
	"DPAD_LEFT":   "KEYCODE_DPAD_LEFT",
	"DPAD_RIGHT":  "KEYCODE_DPAD_RIGHT",
	"BACKSPACE":   "KEYCODE_DEL",
	"APP_SWITCH":  "KEYCODE_APP_SWITCH",
	"POWER":       "KEYCODE_POWER",
}

func (d *AndroidRobot) PressButton(button string) error {
	keycode, exists := androidKeyMap[button]
	if !exists {
		return fmt.Errorf("unsupported button: %q, use one of %s", button, strings.Join(sortedKeys(androidKeyMap), ", "))
	}

	_, err := d.run("shell", "input", "keyevent", keycode)
	if err != nil {
		return fmt.Errorf("failed to press %s button: %v", button, err)
	}

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const clipperPackageName = "ca.zgrs.clipper"

func (d *AndroidRobot) SendKeys(text string) error {
	if text == "" {
		// agents frequently send empty submits
		return nil
	}

	if isAscii(text) {
		_, err := d.run("shell", "input", "text", escapeShellText(text))
		if err != nil {
			return fmt.Errorf("failed to send text: %v", err)
		}
		return nil
	}

	return d.sendKeysViaClipboard(text)
}

// sendKeysViaClipboard delivers non-ascii text through the clipper
// helper app: set clipboard, paste, clear clipboard.
func (d *AndroidRobot) sendKeysViaClipboard(text string) error {
	installed, err := d.isPackageInstalled(clipperPackageName)
	if err != nil {
		return err
	}

	if !installed {
		return fmt.Errorf("cannot type non-ascii text: the clipper helper app (%s) is not installed on the device. Install it from https://github.com/majido/clipper to enable unicode input", clipperPackageName)
	}

	if _, err := d.run("shell", "am", "broadcast", "-a", "clipper.set", "-e", "text", escapeShellText(text)); err != nil {
		return fmt.Errorf("failed to set clipboard: %v", err)
	}

	// KEYCODE_PASTE
	if _, err := d.run("shell", "input", "keyevent", "279"); err != nil {
		return fmt.Errorf("failed to paste clipboard: %v", err)
	}

	if _, err := d.run("shell", "am", "broadcast", "-a", "clipper.clear"); err != nil {
		utils.Warn("failed to clear clipboard on %s: %v", d.id, err)
	}

	return nil
}

func (d *AndroidRobot) isPackageInstalled(packageName string) (bool, error) {
	output, err := d.run("shell", "pm", "list", "packages", packageName)
	if err != nil {
		return false, fmt.Errorf("failed to query package %s: %v", packageName, err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) == "package:"+packageName {
			return true, nil
		}
	}

	return false, nil
}

func isAscii(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
	}
	return true
}

// escapeShellText escapes characters with a meaning to the device-side
// shell that receives `input text`.
func escapeShellText(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch r {
		case ' ', '\'', '"', ';', '|', '&', '(', ')', '$', '*', '<', '>', '`', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (d *AndroidRobot) GetOrientation() (string, error) {
	output, err := d.run("shell", "settings", "get", "system", "user_rotation")
	if err != nil {
		return "", fmt.Errorf("failed to get orientation: %v", err)
	}

	switch strings.TrimSpace(string(output)) {
	case "1", "3":
		return types.OrientationLandscape, nil
	default:
		return types.OrientationPortrait, nil
	}
}

func (d *AndroidRobot) SetOrientation(orientation string) error {
	rotation := ""
	switch orientation {
	case types.OrientationPortrait:
		rotation = "0"
	case types.OrientationLandscape:
		rotation = "1"
	default:
		return fmt.Errorf("invalid orientation %q, must be portrait or landscape", orientation)
	}

	// turn off auto-rotate first so the explicit value sticks
	if _, err := d.run("shell", "settings", "put", "system", "accelerometer_rotation", "0"); err != nil {
		return fmt.Errorf("failed to disable auto-rotation: %v", err)
	}

	if _, err := d.run("shell", "settings", "put", "system", "user_rotation", rotation); err != nil {
		return fmt.Errorf("failed to set orientation: %v", err)
	}

	return nil
}

// isTVDevice reports whether the device exposes a television feature
// flag (leanback launchers navigate by d-pad focus).
func (d *AndroidRobot) isTVDevice() bool {
	output, err := d.run("shell", "pm", "list", "features")
	if err != nil {
		utils.Verbose("failed to list features on %s: %v", d.id, err)
		return false
	}

	features := string(output)
	return strings.Contains(features, "android.software.leanback") ||
		strings.Contains(features, "android.hardware.type.television")
}

func (d *AndroidRobot) getprop(key string) string {
	output, err := d.run("shell", "getprop", key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

func parseAdbDevicesOutput(output string) []string {
	var ids []string

	lines := strings.Split(output, "\n")
	for i := 1; i < len(lines); i++ {
		parts := strings.Fields(strings.TrimSpace(lines[i]))
		if len(parts) >= 2 && parts[1] == "device" {
			ids = append(ids, parts[0])
		}
	}

	return ids
}

// GetAndroidRobots enumerates attached devices and emulators.
func GetAndroidRobots() ([]Robot, error) {
	output, err := runCommand(adbPath(), defaultCommandTimeout, defaultOutputLimit, "devices")
	if err != nil {
		return nil, fmt.Errorf("failed to run 'adb devices': %v", err)
	}

	var robots []Robot
	for _, id := range parseAdbDevicesOutput(string(output)) {
		d := NewAndroidRobot(id)
		d.name = androidDeviceName(d)
		d.version = d.getprop("ro.build.version.release")
		d.tv = d.isTVDevice()
		robots = append(robots, d)
	}

	return robots, nil
}

func androidDeviceName(d *AndroidRobot) string {
	if d.DeviceType() == "emulator" {
		if name := d.emulatorDisplayName(); name != "" {
			return name
		}
	}

	if model := d.getprop("ro.product.model"); model != "" {
		return model
	}

	return d.id
}

// emulatorDisplayName resolves an emulator's human name through its
// AVD configuration.
func (d *AndroidRobot) emulatorDisplayName() string {
	output, err := d.run("emu", "avd", "name")
	if err != nil {
		return ""
	}

	avdName := strings.TrimSpace(strings.Split(string(output), "\n")[0])
	if avdName == "" || avdName == "OK" {
		return ""
	}

	details, err := getAVDDetails()
	if err == nil {
		for name, info := range details {
			if MatchesAVDName(name, avdName) && info.DisplayName != "" {
				return info.DisplayName
			}
		}
	}

	return strings.ReplaceAll(avdName, "_", " ")
}
