package devices

import (
	"strings"
	"testing"

	"github.com/mobile-next/mobile-mcp/types"
)

func TestSwipeEndpoints_StayWithinScreenBounds(t *testing.T) {
	sizes := []*types.ScreenSize{
		{Width: 1080, Height: 2400, Scale: 1},
		{Width: 320, Height: 480, Scale: 1},
		{Width: 2400, Height: 1080, Scale: 1}, // landscape
		{Width: 1, Height: 1, Scale: 1},
	}

	directions := []string{SwipeUp, SwipeDown, SwipeLeft, SwipeRight}

	for _, size := range sizes {
		for _, direction := range directions {
			x1, y1, x2, y2, err := swipeEndpoints(size, direction)
			if err != nil {
				t.Fatalf("swipeEndpoints(%dx%d, %s) error = %v", size.Width, size.Height, direction, err)
			}

			for _, p := range []struct {
				name  string
				value int
				max   int
			}{
				{"x1", x1, size.Width},
				{"x2", x2, size.Width},
				{"y1", y1, size.Height},
				{"y2", y2, size.Height},
			} {
				if p.value < 0 || p.value > p.max {
					t.Errorf("swipeEndpoints(%dx%d, %s): %s = %d out of [0,%d]",
						size.Width, size.Height, direction, p.name, p.value, p.max)
				}
			}
		}
	}
}

func TestSwipeEndpoints_DirectionGeometry(t *testing.T) {
	size := &types.ScreenSize{Width: 1000, Height: 2000, Scale: 1}

	x1, y1, x2, y2, err := swipeEndpoints(size, SwipeUp)
	if err != nil {
		t.Fatal(err)
	}
	if x1 != 500 || x2 != 500 {
		t.Errorf("up swipe should stay on the horizontal center, got x1=%d x2=%d", x1, x2)
	}
	if y1 != 1600 || y2 != 400 {
		t.Errorf("up swipe should go from 80%% to 20%% of height, got y1=%d y2=%d", y1, y2)
	}
}

func TestSwipeEndpoints_UnsupportedDirection(t *testing.T) {
	size := &types.ScreenSize{Width: 1000, Height: 2000, Scale: 1}

	_, _, _, _, err := swipeEndpoints(size, "diagonal")
	if err == nil {
		t.Fatal("expected error for unsupported direction")
	}
	if !strings.Contains(err.Error(), "diagonal") {
		t.Errorf("error should name the unsupported direction, got %v", err)
	}
}

func TestSwipeFromCoordinate_DefaultDistance(t *testing.T) {
	size := &types.ScreenSize{Width: 1000, Height: 2000, Scale: 1}

	// default distance is 30% of the relevant dimension
	x2, y2, err := swipeFromCoordinate(size, 500, 1000, SwipeUp, 0)
	if err != nil {
		t.Fatal(err)
	}
	if x2 != 500 || y2 != 400 {
		t.Errorf("got end point (%d,%d), want (500,400)", x2, y2)
	}

	x2, y2, err = swipeFromCoordinate(size, 500, 1000, SwipeRight, 0)
	if err != nil {
		t.Fatal(err)
	}
	if x2 != 800 || y2 != 1000 {
		t.Errorf("got end point (%d,%d), want (800,1000)", x2, y2)
	}
}

func TestSwipeFromCoordinate_ClampsToScreen(t *testing.T) {
	size := &types.ScreenSize{Width: 1000, Height: 2000, Scale: 1}

	tests := []struct {
		name      string
		x, y      int
		direction string
		distance  int
		wantX     int
		wantY     int
	}{
		{"up past the top", 500, 100, SwipeUp, 500, 500, 0},
		{"down past the bottom", 500, 1900, SwipeDown, 500, 500, 2000},
		{"left past the edge", 100, 1000, SwipeLeft, 500, 0, 1000},
		{"right past the edge", 900, 1000, SwipeRight, 500, 1000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x2, y2, err := swipeFromCoordinate(size, tt.x, tt.y, tt.direction, tt.distance)
			if err != nil {
				t.Fatal(err)
			}
			if x2 != tt.wantX || y2 != tt.wantY {
				t.Errorf("end point = (%d,%d), want (%d,%d)", x2, y2, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestSwipeFromCoordinate_UnsupportedDirection(t *testing.T) {
	size := &types.ScreenSize{Width: 1000, Height: 2000, Scale: 1}

	_, _, err := swipeFromCoordinate(size, 0, 0, "sideways", 0)
	if err == nil {
		t.Fatal("expected error for unsupported direction")
	}
	if !strings.Contains(err.Error(), "sideways") {
		t.Errorf("error should name the unsupported direction, got %v", err)
	}
}

func TestErrNotSupported(t *testing.T) {
	err := errNotSupported("device logs", "ios simulators")
	want := "device logs is not supported on ios simulators"
	if err.Error() != want {
		t.Errorf("errNotSupported() = %q, want %q", err.Error(), want)
	}
}
