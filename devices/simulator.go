package devices

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mobile-next/mobile-mcp/devices/ios"
	"github.com/mobile-next/mobile-mcp/devices/wda"
	"github.com/mobile-next/mobile-mcp/types"
	"github.com/mobile-next/mobile-mcp/utils"
	"howett.net/plist"
)

const wdaBundleID = "com.facebook.WebDriverAgentRunner.xctrunner"

// SimulatorRobot drives a booted iOS simulator. App lifecycle goes
// through "xcrun simctl"; interaction goes through WebDriverAgent,
// which StartAgent launches on demand.
type SimulatorRobot struct {
	id      string
	name    string
	version string

	wda *wda.Client
	run commandRunner // simctl invocations, swapped for a fake in tests
}

func NewSimulatorRobot(id string) *SimulatorRobot {
	d := &SimulatorRobot{
		id:  id,
		wda: wda.NewClient(fmt.Sprintf("localhost:%d", ios.WdaPort())),
	}
	d.run = func(args ...string) ([]byte, error) {
		return runCommand("xcrun", heavyCommandTimeout, screenshotOutputLimit, append([]string{"simctl"}, args...)...)
	}
	return d
}

func (d *SimulatorRobot) ID() string         { return d.id }
func (d *SimulatorRobot) Name() string       { return d.name }
func (d *SimulatorRobot) Platform() string   { return "ios" }
func (d *SimulatorRobot) DeviceType() string { return "simulator" }
func (d *SimulatorRobot) Version() string    { return d.version }

// StartAgent makes sure WebDriverAgent answers, launching its runner
// app if needed. The runner must already be installed on the simulator.
func (d *SimulatorRobot) StartAgent() error {
	if _, err := d.wda.Status(); err == nil {
		return nil
	}

	installed, err := d.isAppInstalled(wdaBundleID)
	if err != nil {
		return err
	}

	if !installed {
		return fmt.Errorf("WebDriverAgent is not installed on simulator %s. Install the "+
			"WebDriverAgentRunner-Runner.app bundle (%s) and try again", d.id, wdaBundleID)
	}

	utils.Verbose("launching WebDriverAgent on simulator %s", d.id)
	if err := d.LaunchApp(wdaBundleID); err != nil {
		return fmt.Errorf("failed to launch WebDriverAgent: %w", err)
	}

	return d.wda.WaitForReady(10 * time.Second)
}

func (d *SimulatorRobot) ScreenSize() (*types.ScreenSize, error) {
	return d.wda.GetScreenSize()
}

func (d *SimulatorRobot) TakeScreenshot() ([]byte, error) {
	return d.wda.TakeScreenshot()
}

// listAppsPlist is keyed by bundle identifier.
type listAppsPlist map[string]struct {
	CFBundleIdentifier  string `plist:"CFBundleIdentifier"`
	CFBundleDisplayName string `plist:"CFBundleDisplayName"`
	CFBundleName        string `plist:"CFBundleName"`
	CFBundleVersion     string `plist:"CFBundleVersion"`
}

func (d *SimulatorRobot) ListApps() ([]types.InstalledApp, error) {
	// simctl emits an openstep-style plist here, not json
	output, err := d.run("listapps", d.id)
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}

	var parsed listAppsPlist
	if _, err := plist.Unmarshal(output, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse listapps output: %w", err)
	}

	var apps []types.InstalledApp
	for bundleID, app := range parsed {
		name := app.CFBundleDisplayName
		if name == "" {
			name = app.CFBundleName
		}

		apps = append(apps, types.InstalledApp{
			PackageName: bundleID,
			AppName:     name,
			Version:     app.CFBundleVersion,
		})
	}

	return apps, nil
}

func (d *SimulatorRobot) isAppInstalled(bundleID string) (bool, error) {
	apps, err := d.ListApps()
	if err != nil {
		return false, err
	}

	for _, app := range apps {
		if app.PackageName == bundleID {
			return true, nil
		}
	}

	return false, nil
}

func (d *SimulatorRobot) LaunchApp(packageName string) error {
	_, err := d.run("launch", d.id, packageName)
	return err
}

func (d *SimulatorRobot) TerminateApp(packageName string) error {
	_, err := d.run("terminate", d.id, packageName)
	return err
}

// InstallApp installs an .app bundle. A .zip archive is extracted
// first and the bundle located inside it.
func (d *SimulatorRobot) InstallApp(path string) error {
	appPath := path

	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		extractedDir, err := utils.ExtractZip(path)
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", path, err)
		}
		defer os.RemoveAll(extractedDir)

		appPath, err = utils.FindAppBundle(extractedDir)
		if err != nil {
			return fmt.Errorf("no .app bundle found in %s: %w", path, err)
		}
	}

	if _, err := d.run("install", d.id, appPath); err != nil {
		return fmt.Errorf("failed to install %s: %w", appPath, err)
	}

	return nil
}

func (d *SimulatorRobot) UninstallApp(packageName string) error {
	_, err := d.run("uninstall", d.id, packageName)
	return err
}

func (d *SimulatorRobot) OpenURL(url string) error {
	_, err := d.run("openurl", d.id, url)
	return err
}

func (d *SimulatorRobot) SendKeys(text string) error {
	if text == "" {
		// agents frequently send empty submits
		return nil
	}

	return d.wda.SendKeys(text)
}

func (d *SimulatorRobot) PressButton(button string) error {
	return d.wda.PressButton(button)
}

func (d *SimulatorRobot) Tap(x, y int) error {
	return d.wda.Tap(x, y)
}

func (d *SimulatorRobot) DoubleTap(x, y int) error {
	return d.wda.DoubleTap(x, y)
}

func (d *SimulatorRobot) LongPress(x, y int, duration time.Duration) error {
	return d.wda.LongPress(x, y, duration)
}

func (d *SimulatorRobot) Swipe(direction string) error {
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

func (d *SimulatorRobot) SwipeFromCoordinate(x, y int, direction string, distance int) error {
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

func (d *SimulatorRobot) ElementsOnScreen() ([]types.ScreenElement, error) {
	return d.wda.GetSourceElements()
}

func (d *SimulatorRobot) GetOrientation() (string, error) {
	return d.wda.GetOrientation()
}

func (d *SimulatorRobot) SetOrientation(orientation string) error {
	return d.wda.SetOrientation(orientation)
}

func (d *SimulatorRobot) DeviceLogs(window time.Duration) ([]types.DeviceLog, error) {
	return nil, errNotSupported("device logs", "ios simulators")
}

type simctlDevice struct {
	Name  string `json:"name"`
	UDID  string `json:"udid"`
	State string `json:"state"`
}

type simctlList struct {
	Devices map[string][]simctlDevice `json:"devices"`
}

// GetSimulatorRobots enumerates booted simulators. simctl is only
// present on macOS; a missing binary means no simulators.
func GetSimulatorRobots() ([]Robot, error) {
	output, err := runCommand("xcrun", defaultCommandTimeout, defaultOutputLimit, "simctl", "list", "--json")
	if err != nil {
		utils.Verbose("skipping ios simulators: %v", err)
		return nil, nil
	}

	var list simctlList
	if err := json.Unmarshal(bytes.TrimSpace(output), &list); err != nil {
		return nil, fmt.Errorf("failed to parse simctl device list: %w", err)
	}

	var robots []Robot
	for runtimeName, simulators := range list.Devices {
		for _, simulator := range simulators {
			if simulator.State != "Booted" {
				continue
			}

			robot := NewSimulatorRobot(simulator.UDID)
			robot.name = simulator.Name
			robot.version = runtimeVersion(runtimeName)
			robots = append(robots, robot)
		}
	}

	return robots, nil
}

// runtimeVersion turns "com.apple.CoreSimulator.SimRuntime.iOS-17-2"
// into "17.2".
func runtimeVersion(runtimeName string) string {
	idx := strings.LastIndex(runtimeName, ".")
	if idx < 0 {
		return runtimeName
	}

	version := runtimeName[idx+1:]
	version = strings.TrimPrefix(version, "iOS-")
	return strings.ReplaceAll(version, "-", ".")
}
