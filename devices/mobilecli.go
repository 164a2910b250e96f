package devices

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/mobile-next/mobile-mcp/types"
	"github.com/mobile-next/mobile-mcp/utils"
)

// MobileCliRobot drives a device through the cross-platform mobilecli
// binary instead of platform tooling. Every operation is one subcommand
// invocation returning a {status,data}/{status,error} JSON envelope.
type MobileCliRobot struct {
	id       string
	name     string
	platform string
	kind     string
	version  string

	run commandRunner // mobilecli invocations, swapped for a fake in tests
}

func NewMobileCliRobot(id string) *MobileCliRobot {
	d := &MobileCliRobot{id: id}
	d.run = func(args ...string) ([]byte, error) {
		binary, err := mobileCliPath()
		if err != nil {
			return nil, err
		}
		return runCommand(binary, heavyCommandTimeout, screenshotOutputLimit, args...)
	}
	return d
}

func mobileCliPath() (string, error) {
	if envPath := os.Getenv("MOBILECLI_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	if path, err := exec.LookPath("mobilecli"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("mobilecli not found in PATH (set MOBILECLI_PATH to override)")
}

// cliEnvelope is mobilecli's uniform response shape.
type cliEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// runEnvelope invokes a subcommand and unwraps the JSON envelope,
// turning status:"error" into a plain error carrying the message.
func (d *MobileCliRobot) runEnvelope(args ...string) (json.RawMessage, error) {
	output, err := d.run(args...)
	if err != nil {
		return nil, err
	}

	var envelope cliEnvelope
	if err := json.Unmarshal(bytes.TrimSpace(output), &envelope); err != nil {
		return nil, fmt.Errorf("unexpected mobilecli output: %v\nOutput: %s", err, output)
	}

	if envelope.Status == "error" {
		return nil, fmt.Errorf("mobilecli: %s", envelope.Error)
	}

	return envelope.Data, nil
}

func (d *MobileCliRobot) ID() string         { return d.id }
func (d *MobileCliRobot) Name() string       { return d.name }
func (d *MobileCliRobot) Platform() string   { return d.platform }
func (d *MobileCliRobot) DeviceType() string { return d.kind }
func (d *MobileCliRobot) Version() string    { return d.version }

func (d *MobileCliRobot) StartAgent() error {
	// mobilecli manages its own agents per invocation
	return nil
}

type cliDeviceInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Platform   string `json:"platform"`
	Type       string `json:"type"`
	Version    string `json:"version,omitempty"`
	ScreenSize *struct {
		Width  int `json:"width"`
		Height int `json:"height"`
		Scale  int `json:"scale"`
	} `json:"screenSize,omitempty"`
}

func (d *MobileCliRobot) ScreenSize() (*types.ScreenSize, error) {
	data, err := d.runEnvelope("device", "info", "--device", d.id)
	if err != nil {
		return nil, err
	}

	var info cliDeviceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse device info: %w", err)
	}

	if info.ScreenSize == nil || info.ScreenSize.Width <= 0 || info.ScreenSize.Height <= 0 {
		return nil, fmt.Errorf("mobilecli did not report a screen size for %s", d.id)
	}

	return &types.ScreenSize{
		Width:  info.ScreenSize.Width,
		Height: info.ScreenSize.Height,
		Scale:  info.ScreenSize.Scale,
	}, nil
}

// TakeScreenshot writes raw PNG bytes to stdout when asked for
// "--output -"; an error still comes back as a JSON envelope.
func (d *MobileCliRobot) TakeScreenshot() ([]byte, error) {
	output, err := d.run("screenshot", "--device", d.id, "--format", "png", "--output", "-")
	if err != nil {
		return nil, err
	}

	pngSignature := []byte{0x89, 'P', 'N', 'G'}
	if bytes.HasPrefix(output, pngSignature) {
		return output, nil
	}

	var envelope cliEnvelope
	if err := json.Unmarshal(bytes.TrimSpace(output), &envelope); err == nil && envelope.Status == "error" {
		return nil, fmt.Errorf("mobilecli: %s", envelope.Error)
	}

	return nil, fmt.Errorf("unexpected screenshot output from mobilecli (%d bytes)", len(output))
}

func (d *MobileCliRobot) ListApps() ([]types.InstalledApp, error) {
	data, err := d.runEnvelope("apps", "list", "--device", d.id)
	if err != nil {
		return nil, err
	}

	var apps []types.InstalledApp
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("failed to parse app list: %w", err)
	}

	// the envelope is trusted on shape, not on uniqueness
	seen := make(map[string]bool, len(apps))
	deduped := apps[:0]
	for _, app := range apps {
		if seen[app.PackageName] {
			continue
		}
		seen[app.PackageName] = true
		deduped = append(deduped, app)
	}

	return deduped, nil
}

func (d *MobileCliRobot) LaunchApp(packageName string) error {
	_, err := d.runEnvelope("apps", "launch", packageName, "--device", d.id)
	return err
}

func (d *MobileCliRobot) TerminateApp(packageName string) error {
	_, err := d.runEnvelope("apps", "terminate", packageName, "--device", d.id)
	return err
}

func (d *MobileCliRobot) InstallApp(path string) error {
	_, err := d.runEnvelope("apps", "install", path, "--device", d.id)
	return err
}

func (d *MobileCliRobot) UninstallApp(packageName string) error {
	_, err := d.runEnvelope("apps", "uninstall", packageName, "--device", d.id)
	return err
}

func (d *MobileCliRobot) OpenURL(url string) error {
	_, err := d.runEnvelope("url", url, "--device", d.id)
	return err
}

func (d *MobileCliRobot) SendKeys(text string) error {
	if text == "" {
		return nil
	}

	_, err := d.runEnvelope("io", "text", text, "--device", d.id)
	return err
}

func (d *MobileCliRobot) PressButton(button string) error {
	_, err := d.runEnvelope("io", "button", button, "--device", d.id)
	return err
}

func (d *MobileCliRobot) Tap(x, y int) error {
	_, err := d.runEnvelope("io", "tap", fmt.Sprintf("%d,%d", x, y), "--device", d.id)
	return err
}

func (d *MobileCliRobot) DoubleTap(x, y int) error {
	if err := d.Tap(x, y); err != nil {
		return err
	}
	time.Sleep(doubleTapDelay)
	return d.Tap(x, y)
}

func (d *MobileCliRobot) LongPress(x, y int, duration time.Duration) error {
	args := []string{"io", "longpress", fmt.Sprintf("%d,%d", x, y), "--device", d.id}
	if duration > 0 {
		args = append(args, "--duration", fmt.Sprintf("%d", duration.Milliseconds()))
	}

	_, err := d.runEnvelope(args...)
	return err
}

func (d *MobileCliRobot) Swipe(direction string) error {
	size, err := d.ScreenSize()
	if err != nil {
		return err
	}

	x1, y1, x2, y2, err := swipeEndpoints(size, direction)
	if err != nil {
		return err
	}

	return d.swipeCoordinates(x1, y1, x2, y2)
}

func (d *MobileCliRobot) SwipeFromCoordinate(x, y int, direction string, distance int) error {
	size, err := d.ScreenSize()
	if err != nil {
		return err
	}

	x2, y2, err := swipeFromCoordinate(size, x, y, direction, distance)
	if err != nil {
		return err
	}

	return d.swipeCoordinates(clamp(x, 0, size.Width), clamp(y, 0, size.Height), x2, y2)
}

func (d *MobileCliRobot) swipeCoordinates(x1, y1, x2, y2 int) error {
	_, err := d.runEnvelope("io", "swipe", fmt.Sprintf("%d,%d,%d,%d", x1, y1, x2, y2), "--device", d.id)
	return err
}

func (d *MobileCliRobot) ElementsOnScreen() ([]types.ScreenElement, error) {
	data, err := d.runEnvelope("dump", "ui", "--device", d.id)
	if err != nil {
		return nil, err
	}

	var elements []types.ScreenElement
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("failed to parse ui dump: %w", err)
	}

	return elements, nil
}

func (d *MobileCliRobot) GetOrientation() (string, error) {
	data, err := d.runEnvelope("device", "orientation", "get", "--device", d.id)
	if err != nil {
		return "", err
	}

	var result struct {
		Orientation string `json:"orientation"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse orientation: %w", err)
	}

	return result.Orientation, nil
}

func (d *MobileCliRobot) SetOrientation(orientation string) error {
	if orientation != types.OrientationPortrait && orientation != types.OrientationLandscape {
		return fmt.Errorf("invalid orientation value '%s', must be 'portrait' or 'landscape'", orientation)
	}

	_, err := d.runEnvelope("device", "orientation", "set", orientation, "--device", d.id)
	return err
}

func (d *MobileCliRobot) DeviceLogs(window time.Duration) ([]types.DeviceLog, error) {
	return nil, errNotSupported("device logs", "mobilecli devices")
}

// GetMobileCliRobots enumerates devices through mobilecli. A missing
// binary just means this back end is unavailable.
func GetMobileCliRobots() ([]Robot, error) {
	if _, err := mobileCliPath(); err != nil {
		utils.Verbose("skipping mobilecli devices: %v", err)
		return nil, nil
	}

	probe := NewMobileCliRobot("")
	data, err := probe.runEnvelope("devices")
	if err != nil {
		return nil, fmt.Errorf("failed to list mobilecli devices: %w", err)
	}

	var infos []cliDeviceInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("failed to parse mobilecli device list: %w", err)
	}

	var robots []Robot
	for _, info := range infos {
		robot := NewMobileCliRobot(info.ID)
		robot.name = info.Name
		robot.platform = info.Platform
		robot.kind = info.Type
		robot.version = info.Version
		robots = append(robots, robot)
	}

	return robots, nil
}
