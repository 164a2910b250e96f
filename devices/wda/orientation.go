package wda

import (
	"fmt"

	"github.com/mobile-next/mobile-mcp/types"
)

// GetOrientation returns the device orientation as "portrait" or "landscape".
func (c *Client) GetOrientation() (string, error) {
	var orientation string
	err := c.withSession(func(sessionID string) error {
		response, err := c.GetEndpoint(fmt.Sprintf("session/%s/orientation", sessionID))
		if err != nil {
			return fmt.Errorf("failed to get orientation: %v", err)
		}

		value, ok := response["value"].(string)
		if !ok {
			return fmt.Errorf("invalid orientation response format")
		}

		// collapse the WDA orientation names to portrait/landscape
		switch value {
		case "LANDSCAPE", "LANDSCAPERIGHT",
			"UIA_DEVICE_ORIENTATION_LANDSCAPELEFT",
			"UIA_DEVICE_ORIENTATION_LANDSCAPERIGHT":
			orientation = types.OrientationLandscape
		default:
			orientation = types.OrientationPortrait
		}

		return nil
	})

	return orientation, err
}

// SetOrientation rotates the device to "portrait" or "landscape".
func (c *Client) SetOrientation(orientation string) error {
	if orientation != types.OrientationPortrait && orientation != types.OrientationLandscape {
		return fmt.Errorf("invalid orientation value '%s', must be 'portrait' or 'landscape'", orientation)
	}

	wdaOrientation := "PORTRAIT"
	if orientation == types.OrientationLandscape {
		wdaOrientation = "LANDSCAPE"
	}

	return c.withSession(func(sessionID string) error {
		_, err := c.PostEndpoint(fmt.Sprintf("session/%s/orientation", sessionID), map[string]interface{}{
			"orientation": wdaOrientation,
		})
		if err != nil {
			return fmt.Errorf("failed to set orientation: %v", err)
		}
		return nil
	})
}
