package wda

func (c *Client) Swipe(x1, y1, x2, y2 int) error {
	return c.performActions([]TapAction{
		{Type: "pointerMove", Duration: 0, X: x1, Y: y1},
		{Type: "pointerDown", Button: 0},
		{Type: "pointerMove", Duration: 1000, X: x2, Y: y2},
		{Type: "pointerUp", Button: 0},
	})
}
