package wda

import (
	"fmt"
	"time"
)

func (c *Client) performActions(actions []TapAction) error {
	return c.withSession(func(sessionID string) error {
		_, err := c.PostEndpoint(fmt.Sprintf("session/%s/actions", sessionID), fingerActions(actions))
		return err
	})
}

func (c *Client) Tap(x, y int) error {
	return c.performActions([]TapAction{
		{Type: "pointerMove", Duration: 0, X: x, Y: y},
		{Type: "pointerDown", Button: 0},
		{Type: "pause", Duration: 100},
		{Type: "pointerUp", Button: 0},
	})
}

func (c *Client) DoubleTap(x, y int) error {
	return c.performActions([]TapAction{
		{Type: "pointerMove", Duration: 0, X: x, Y: y},
		{Type: "pointerDown", Button: 0},
		{Type: "pause", Duration: 100},
		{Type: "pointerUp", Button: 0},
		{Type: "pause", Duration: 100},
		{Type: "pointerDown", Button: 0},
		{Type: "pause", Duration: 100},
		{Type: "pointerUp", Button: 0},
	})
}

func (c *Client) LongPress(x, y int, duration time.Duration) error {
	if duration <= 0 {
		duration = 500 * time.Millisecond
	}

	return c.performActions([]TapAction{
		{Type: "pointerMove", Duration: 0, X: x, Y: y},
		{Type: "pointerDown", Button: 0},
		{Type: "pause", Duration: int(duration.Milliseconds())},
		{Type: "pointerUp", Button: 0},
	})
}
