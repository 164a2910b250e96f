package devices

import (
	"strings"
	"testing"
)

func TestMobileCliRobot_EnvelopeSuccess(t *testing.T) {
	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return []byte(`{"status":"ok","data":{"orientation":"landscape"}}`), nil
	}

	orientation, err := d.GetOrientation()
	if err != nil {
		t.Fatalf("GetOrientation() error = %v", err)
	}
	if orientation != "landscape" {
		t.Errorf("GetOrientation() = %q, want landscape", orientation)
	}
}

func TestMobileCliRobot_EnvelopeError(t *testing.T) {
	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return []byte(`{"status":"error","error":"device not found"}`), nil
	}

	err := d.LaunchApp("com.example.app")
	if err == nil {
		t.Fatal("expected error from error envelope")
	}
	if !strings.Contains(err.Error(), "device not found") {
		t.Errorf("error should carry the envelope message, got %v", err)
	}
}

func TestMobileCliRobot_EnvelopeGarbage(t *testing.T) {
	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return []byte("segfault"), nil
	}

	if err := d.LaunchApp("com.example.app"); err == nil {
		t.Fatal("expected error for unparseable output")
	}
}

func TestMobileCliRobot_ListAppsDeduplicates(t *testing.T) {
	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return []byte(`{"status":"ok","data":[
			{"packageName":"com.example.one","appName":"One"},
			{"packageName":"com.example.two","appName":"Two"},
			{"packageName":"com.example.one","appName":"One again"}
		]}`), nil
	}

	apps, err := d.ListApps()
	if err != nil {
		t.Fatalf("ListApps() error = %v", err)
	}
	if len(apps) != 2 {
		t.Errorf("expected 2 apps after dedupe, got %d", len(apps))
	}
}

func TestMobileCliRobot_TakeScreenshotBinary(t *testing.T) {
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return png, nil
	}

	data, err := d.TakeScreenshot()
	if err != nil {
		t.Fatalf("TakeScreenshot() error = %v", err)
	}
	if len(data) != len(png) {
		t.Errorf("screenshot bytes truncated: got %d, want %d", len(data), len(png))
	}
}

func TestMobileCliRobot_TakeScreenshotErrorEnvelope(t *testing.T) {
	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		return []byte(`{"status":"error","error":"no screen"}`), nil
	}

	_, err := d.TakeScreenshot()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no screen") {
		t.Errorf("error should carry the envelope message, got %v", err)
	}
}

func TestMobileCliRobot_SendKeysEmptyIsNoOp(t *testing.T) {
	invocations := 0
	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		invocations++
		return []byte(`{"status":"ok"}`), nil
	}

	if err := d.SendKeys(""); err != nil {
		t.Fatalf("SendKeys(\"\") error = %v", err)
	}
	if invocations != 0 {
		t.Errorf("SendKeys(\"\") ran %d commands, want 0", invocations)
	}
}

func TestMobileCliRobot_DoubleTapIsTwoTaps(t *testing.T) {
	var calls [][]string
	d := &MobileCliRobot{id: "test"}
	d.run = func(args ...string) ([]byte, error) {
		calls = append(calls, args)
		return []byte(`{"status":"ok"}`), nil
	}

	if err := d.DoubleTap(10, 20); err != nil {
		t.Fatalf("DoubleTap() error = %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 tap invocations, got %d", len(calls))
	}
	for _, call := range calls {
		if call[0] != "io" || call[1] != "tap" || call[2] != "10,20" {
			t.Errorf("unexpected tap invocation: %v", call)
		}
	}
}
