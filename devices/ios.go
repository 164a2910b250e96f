package devices

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mobile-next/mobile-mcp/devices/ios"
	"github.com/mobile-next/mobile-mcp/devices/wda"
	"github.com/mobile-next/mobile-mcp/types"
	"github.com/mobile-next/mobile-mcp/utils"
)

// IosRobot drives a physical iOS device. App lifecycle goes through the
// go-ios binary over usbmux; interaction goes through WebDriverAgent,
// which must already be running on the device with its port tunneled or
// forwarded to localhost.
type IosRobot struct {
	id      string
	name    string
	version string
	port    int

	wda *wda.Client
	run commandRunner // go-ios invocations, swapped for a fake in tests
}

func NewIosRobot(id string) *IosRobot {
	port := ios.WdaPort()
	d := &IosRobot{
		id:   id,
		port: port,
		wda:  wda.NewClient(fmt.Sprintf("localhost:%d", port)),
	}
	d.run = func(args ...string) ([]byte, error) {
		binary, err := ios.FindGoIosPath()
		if err != nil {
			return nil, err
		}
		return runCommand(binary, defaultCommandTimeout, defaultOutputLimit, append(args, "--udid", d.id)...)
	}
	return d
}

func (d *IosRobot) ID() string         { return d.id }
func (d *IosRobot) Name() string       { return d.name }
func (d *IosRobot) Platform() string   { return "ios" }
func (d *IosRobot) DeviceType() string { return "real" }
func (d *IosRobot) Version() string    { return d.version }

// checkAgent verifies the WebDriverAgent port answers before any
// interaction call, so failures say "start the tunnel" instead of a
// bare connection refused.
func (d *IosRobot) checkAgent() error {
	if utils.IsPortOpen("localhost", d.port, 1*time.Second) {
		return nil
	}

	return fmt.Errorf("WebDriverAgent is not reachable on port %d. Make sure it is running on the device, "+
		"and that the port is tunneled to this machine (\"go-ios tunnel start\" on iOS 17+, "+
		"or \"go-ios forward %d %d\")", d.port, d.port, d.port)
}

func (d *IosRobot) StartAgent() error {
	if err := d.checkAgent(); err != nil {
		return err
	}

	_, err := d.wda.Status()
	return err
}

func (d *IosRobot) ScreenSize() (*types.ScreenSize, error) {
	if err := d.checkAgent(); err != nil {
		return nil, err
	}
	return d.wda.GetScreenSize()
}

func (d *IosRobot) TakeScreenshot() ([]byte, error) {
	if err := d.checkAgent(); err != nil {
		return nil, err
	}
	return d.wda.TakeScreenshot()
}

func (d *IosRobot) ListApps() ([]types.InstalledApp, error) {
	output, err := d.run("apps", "--all", "--list")
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}

	return parseGoIosAppList(string(output)), nil
}

func (d *IosRobot) LaunchApp(packageName string) error {
	_, err := d.run("launch", packageName)
	return err
}

func (d *IosRobot) TerminateApp(packageName string) error {
	_, err := d.run("kill", packageName)
	return err
}

func (d *IosRobot) InstallApp(path string) error {
	_, err := d.run("install", "--path", path)
	return err
}

func (d *IosRobot) UninstallApp(packageName string) error {
	_, err := d.run("uninstall", packageName)
	return err
}

func (d *IosRobot) OpenURL(url string) error {
	if err := d.checkAgent(); err != nil {
		return err
	}
	return d.wda.OpenURL(url)
}

func (d *IosRobot) SendKeys(text string) error {
	if text == "" {
		// agents frequently send empty submits
		return nil
	}

	if err := d.checkAgent(); err != nil {
		return err
	}
	return d.wda.SendKeys(text)
}

func (d *IosRobot) PressButton(button string) error {
	if err := d.checkAgent(); err != nil {
		return err
	}
	return d.wda.PressButton(button)
}

func (d *IosRobot) Tap(x, y int) error {
	if err := d.checkAgent(); err != nil {
		return err
	}
	return d.wda.Tap(x, y)
}

func (d *IosRobot) DoubleTap(x, y int) error {
	if err := d.checkAgent(); err != nil {
		return err
	}
	return d.wda.DoubleTap(x, y)
}

func (d *IosRobot) LongPress(x, y int, duration time.Duration) error {
	if err := d.checkAgent(); err != nil {
		return err
	}
	return d.wda.LongPress(x, y, duration)
}

func (d *IosRobot) Swipe(direction string) error {
	size, err := d.ScreenSize()
	if err != nil {
		return err
	}

	x1, y1, x2, y2, err := swipeEndpoints(size, direction)
	if err != nil {
		return err
	}

	return d.wda.Swipe(x1, y1, x2, y2)
}

func (d *IosRobot) SwipeFromCoordinate(x, y int, direction string, distance int) error {
	size, err := d.ScreenSize()
	if err != nil {
		return err
	}

	x2, y2, err := swipeFromCoordinate(size, x, y, direction, distance)
	if err != nil {
		return err
	}

	return d.wda.Swipe(clamp(x, 0, size.Width), clamp(y, 0, size.Height), x2, y2)
}

func (d *IosRobot) ElementsOnScreen() ([]types.ScreenElement, error) {
	if err := d.checkAgent(); err != nil {
		return nil, err
	}
	return d.wda.GetSourceElements()
}

func (d *IosRobot) GetOrientation() (string, error) {
	if err := d.checkAgent(); err != nil {
		return "", err
	}
	return d.wda.GetOrientation()
}

func (d *IosRobot) SetOrientation(orientation string) error {
	if err := d.checkAgent(); err != nil {
		return err
	}
	return d.wda.SetOrientation(orientation)
}

func (d *IosRobot) DeviceLogs(window time.Duration) ([]types.DeviceLog, error) {
	return nil, errNotSupported("device logs", "ios devices")
}

// parseGoIosAppList parses go-ios "apps" output, one app per line:
// "com.example.app Example App 1.2.3".
func parseGoIosAppList(output string) []types.InstalledApp {
	var apps []types.InstalledApp

	seen := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		packageName := parts[0]
		if seen[packageName] {
			continue
		}
		seen[packageName] = true
		version := parts[len(parts)-1]
		appName := strings.Join(parts[1:len(parts)-1], " ")
		if appName == "" {
			appName = version
			version = ""
		}

		apps = append(apps, types.InstalledApp{
			PackageName: packageName,
			AppName:     appName,
			Version:     version,
		})
	}

	return apps
}

type iosDeviceInfo struct {
	DeviceName     string `json:"DeviceName"`
	ProductVersion string `json:"ProductVersion"`
}

type iosDeviceList struct {
	DeviceList []string `json:"deviceList"`
}

// GetIosRobots enumerates physical iOS devices seen by go-ios. Missing
// go-ios is not an error here; it just means no iOS devices.
func GetIosRobots() ([]Robot, error) {
	binary, err := ios.FindGoIosPath()
	if err != nil {
		utils.Verbose("skipping ios devices: %v", err)
		return nil, nil
	}

	output, err := runCommand(binary, defaultCommandTimeout, defaultOutputLimit, "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list ios devices: %w", err)
	}

	var list iosDeviceList
	if err := json.Unmarshal(output, &list); err != nil {
		return nil, fmt.Errorf("failed to parse go-ios device list: %w", err)
	}

	var robots []Robot
	for _, udid := range list.DeviceList {
		robot := NewIosRobot(udid)

		infoOutput, err := robot.run("info")
		if err != nil {
			utils.Verbose("failed to query info for %s: %v", udid, err)
		} else {
			var info iosDeviceInfo
			if err := json.Unmarshal(infoOutput, &info); err == nil {
				robot.name = info.DeviceName
				robot.version = info.ProductVersion
			}
		}

		if robot.name == "" {
			robot.name = udid
		}

		robots = append(robots, robot)
	}

	return robots, nil
}
