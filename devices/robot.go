package devices

import (
	"fmt"
	"time"

	"github.com/mobile-next/mobile-mcp/types"
)

// Swipe directions accepted by Swipe and SwipeFromCoordinate.
const (
	SwipeUp    = "up"
	SwipeDown  = "down"
	SwipeLeft  = "left"
	SwipeRight = "right"
)

// Robot is the common device-operation contract every platform back
// end implements. Coordinates are pixels. All failures surface as
// plain errors with actionable messages; platform exception shapes
// never leak past an implementation.
type Robot interface {
	ID() string
	Name() string
	Platform() string   // "ios" or "android"
	DeviceType() string // "real", "emulator" or "simulator"
	Version() string    // OS version, possibly empty

	ScreenSize() (*types.ScreenSize, error)
	TakeScreenshot() ([]byte, error)

	ListApps() ([]types.InstalledApp, error)
	LaunchApp(packageName string) error
	TerminateApp(packageName string) error
	InstallApp(path string) error
	UninstallApp(packageName string) error
	OpenURL(url string) error

	SendKeys(text string) error
	PressButton(button string) error
	Tap(x, y int) error
	DoubleTap(x, y int) error
	LongPress(x, y int, duration time.Duration) error
	Swipe(direction string) error
	SwipeFromCoordinate(x, y int, direction string, distance int) error

	ElementsOnScreen() ([]types.ScreenElement, error)
	GetOrientation() (string, error)
	SetOrientation(orientation string) error
	DeviceLogs(window time.Duration) ([]types.DeviceLog, error)

	// StartAgent brings up whatever on-device machinery the back end
	// needs (a no-op on android).
	StartAgent() error
}

const doubleTapDelay = 100 * time.Millisecond

func errNotSupported(op, platform string) error {
	return fmt.Errorf("%s is not supported on %s", op, platform)
}

// swipeEndpoints computes start/end points for a directional swipe
// spanning 60% of the relevant dimension, centered on the other axis.
func swipeEndpoints(size *types.ScreenSize, direction string) (x1, y1, x2, y2 int, err error) {
	centerX := size.Width / 2
	centerY := size.Height / 2

	switch direction {
	case SwipeUp:
		return centerX, int(float64(size.Height) * 0.80), centerX, int(float64(size.Height) * 0.20), nil
	case SwipeDown:
		return centerX, int(float64(size.Height) * 0.20), centerX, int(float64(size.Height) * 0.80), nil
	case SwipeLeft:
		return int(float64(size.Width) * 0.80), centerY, int(float64(size.Width) * 0.20), centerY, nil
	case SwipeRight:
		return int(float64(size.Width) * 0.20), centerY, int(float64(size.Width) * 0.80), centerY, nil
	default:
		return 0, 0, 0, 0, fmt.Errorf("unsupported swipe direction: %q, use up, down, left or right", direction)
	}
}

// swipeFromCoordinate computes the end point of a swipe anchored at
// (x,y). distance is in pixels; 0 means 30% of the relevant screen
// dimension. The result is clamped to screen bounds.
func swipeFromCoordinate(size *types.ScreenSize, x, y int, direction string, distance int) (x2, y2 int, err error) {
	x = clamp(x, 0, size.Width)
	y = clamp(y, 0, size.Height)

	switch direction {
	case SwipeUp, SwipeDown:
		if distance <= 0 {
			distance = int(float64(size.Height) * 0.30)
		}
	case SwipeLeft, SwipeRight:
		if distance <= 0 {
			distance = int(float64(size.Width) * 0.30)
		}
	default:
		return 0, 0, fmt.Errorf("unsupported swipe direction: %q, use up, down, left or right", direction)
	}

	switch direction {
	case SwipeUp:
		return x, clamp(y-distance, 0, size.Height), nil
	case SwipeDown:
		return x, clamp(y+distance, 0, size.Height), nil
	case SwipeLeft:
		return clamp(x-distance, 0, size.Width), y, nil
	default: // SwipeRight
		return clamp(x+distance, 0, size.Width), y, nil
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
