package devices

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/mobile-next/mobile-mcp/devices/wda"
)

// countingAgent is an httptest server standing in for WebDriverAgent,
// counting every request it receives.
func countingAgent() (*int64, *httptest.Server) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		_, _ = w.Write([]byte(`{"sessionId":"SESSION1","value":{}}`))
	}))
	return &requests, server
}

func TestRuntimeVersion(t *testing.T) {
	tests := []struct {
		runtimeName string
		want        string
	}{
		{"com.apple.CoreSimulator.SimRuntime.iOS-17-2", "17.2"},
		{"com.apple.CoreSimulator.SimRuntime.iOS-16-4", "16.4"},
		{"com.apple.CoreSimulator.SimRuntime.iOS-18-0", "18.0"},
		{"weird-runtime-without-dots", "weird-runtime-without-dots"},
	}

	for _, tt := range tests {
		if got := runtimeVersion(tt.runtimeName); got != tt.want {
			t.Errorf("runtimeVersion(%q) = %q, want %q", tt.runtimeName, got, tt.want)
		}
	}
}

const listAppsOutput = `{
	"com.apple.Preferences" = {
		CFBundleIdentifier = "com.apple.Preferences";
		CFBundleDisplayName = Settings;
		CFBundleName = Preferences;
		CFBundleVersion = "1.0";
	};
	"com.example.noname" = {
		CFBundleIdentifier = "com.example.noname";
		CFBundleName = Example;
		CFBundleVersion = "2.1";
	};
}`

func TestSimulatorRobot_ListApps(t *testing.T) {
	d := &SimulatorRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		if args[0] != "listapps" || args[1] != "test" {
			t.Errorf("unexpected simctl invocation: %v", args)
		}
		return []byte(listAppsOutput), nil
	}

	apps, err := d.ListApps()
	if err != nil {
		t.Fatalf("ListApps() error = %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected 2 apps, got %d", len(apps))
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].PackageName < apps[j].PackageName })

	if apps[0].PackageName != "com.apple.Preferences" || apps[0].AppName != "Settings" || apps[0].Version != "1.0" {
		t.Errorf("unexpected first app: %+v", apps[0])
	}

	// falls back to CFBundleName when no display name is set
	if apps[1].PackageName != "com.example.noname" || apps[1].AppName != "Example" {
		t.Errorf("unexpected second app: %+v", apps[1])
	}
}

func TestSimulatorRobot_ListAppsGarbage(t *testing.T) {
	d := &SimulatorRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return []byte("Invalid device: test"), nil
	}

	if _, err := d.ListApps(); err == nil {
		t.Fatal("expected error for unparseable listapps output")
	}
}

func TestSimulatorRobot_IsAppInstalled(t *testing.T) {
	d := &SimulatorRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return []byte(listAppsOutput), nil
	}

	installed, err := d.isAppInstalled("com.apple.Preferences")
	if err != nil {
		t.Fatalf("isAppInstalled() error = %v", err)
	}
	if !installed {
		t.Error("expected com.apple.Preferences to be installed")
	}

	installed, err = d.isAppInstalled("com.example.absent")
	if err != nil {
		t.Fatalf("isAppInstalled() error = %v", err)
	}
	if installed {
		t.Error("expected com.example.absent to not be installed")
	}
}

func TestSimulatorRobot_SendKeysEmptyIsNoOp(t *testing.T) {
	requests, server := countingAgent()
	defer server.Close()

	d := &SimulatorRobot{id: "test", wda: wda.NewClient(server.Listener.Addr().String())}

	if err := d.SendKeys(""); err != nil {
		t.Fatalf("SendKeys(\"\") error = %v", err)
	}
	if n := atomic.LoadInt64(requests); n != 0 {
		t.Errorf("SendKeys(\"\") issued %d agent requests, want 0", n)
	}

	// non-empty text still reaches the agent
	if err := d.SendKeys("hello"); err != nil {
		t.Fatalf("SendKeys(\"hello\") error = %v", err)
	}
	if n := atomic.LoadInt64(requests); n == 0 {
		t.Error("SendKeys(\"hello\") should reach the agent")
	}
}

func TestSimulatorRobot_AppLifecycleCommands(t *testing.T) {
	var calls [][]string
	d := &SimulatorRobot{id: "ABCD-1234"}
	d.run = func(args ...string) ([]byte, error) {
		calls = append(calls, args)
		return nil, nil
	}

	if err := d.LaunchApp("com.example.app"); err != nil {
		t.Fatalf("LaunchApp() error = %v", err)
	}
	if err := d.TerminateApp("com.example.app"); err != nil {
		t.Fatalf("TerminateApp() error = %v", err)
	}
	if err := d.UninstallApp("com.example.app"); err != nil {
		t.Fatalf("UninstallApp() error = %v", err)
	}
	if err := d.OpenURL("https://example.com"); err != nil {
		t.Fatalf("OpenURL() error = %v", err)
	}

	want := [][]string{
		{"launch", "ABCD-1234", "com.example.app"},
		{"terminate", "ABCD-1234", "com.example.app"},
		{"uninstall", "ABCD-1234", "com.example.app"},
		{"openurl", "ABCD-1234", "https://example.com"},
	}

	if len(calls) != len(want) {
		t.Fatalf("expected %d invocations, got %d", len(want), len(calls))
	}
	for i := range want {
		if fmt.Sprint(calls[i]) != fmt.Sprint(want[i]) {
			t.Errorf("invocation %d = %v, want %v", i, calls[i], want[i])
		}
	}
}
