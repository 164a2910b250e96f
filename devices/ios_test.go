package devices

import (
	"net"
	"reflect"
	"strings"
	"testing"

	"github.com/mobile-next/mobile-mcp/types"
)

func TestParseGoIosAppList(t *testing.T) {
	output := `com.apple.Preferences Settings 1.0
com.example.multiword My Long App Name 2.3.1
com.example.nameless 4.0

not-an-app-line
`

	apps := parseGoIosAppList(output)

	want := []types.InstalledApp{
		{PackageName: "com.apple.Preferences", AppName: "Settings", Version: "1.0"},
		{PackageName: "com.example.multiword", AppName: "My Long App Name", Version: "2.3.1"},
		{PackageName: "com.example.nameless", AppName: "4.0", Version: ""},
	}

	if !reflect.DeepEqual(apps, want) {
		t.Errorf("parseGoIosAppList() = %+v, want %+v", apps, want)
	}
}

func TestParseGoIosAppList_Empty(t *testing.T) {
	if apps := parseGoIosAppList(""); len(apps) != 0 {
		t.Errorf("expected no apps for empty output, got %+v", apps)
	}
}

func TestParseGoIosAppList_Deduplicates(t *testing.T) {
	output := `com.example.app Example 1.0
com.example.other Other 2.0
com.example.app Example 1.0
`

	apps := parseGoIosAppList(output)
	if len(apps) != 2 {
		t.Fatalf("expected 2 apps after dedupe, got %d: %+v", len(apps), apps)
	}
	if apps[0].PackageName != "com.example.app" || apps[1].PackageName != "com.example.other" {
		t.Errorf("unexpected app order: %+v", apps)
	}
}

// closedPort returns a localhost port that nothing listens on.
func closedPort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to grab a port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	return port
}

func TestIosRobot_SendKeysEmptyIsNoOp(t *testing.T) {
	// no tunnel: the agent port is closed
	d := &IosRobot{id: "test", port: closedPort(t)}

	if err := d.SendKeys(""); err != nil {
		t.Errorf("SendKeys(\"\") error = %v, want nil even with no tunnel", err)
	}

	err := d.SendKeys("hello")
	if err == nil {
		t.Fatal("SendKeys(\"hello\") should fail with no tunnel")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("unexpected error: %v", err)
	}
}
