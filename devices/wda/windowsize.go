package wda

import (
	"fmt"

	"github.com/mobile-next/mobile-mcp/types"
)

// GetScreenSize returns the logical screen size and pixel scale factor.
func (c *Client) GetScreenSize() (*types.ScreenSize, error) {
	var screenSize *types.ScreenSize
	err := c.withSession(func(sessionID string) error {
		response, err := c.GetEndpoint(fmt.Sprintf("session/%s/wda/screen", sessionID))
		if err != nil {
			return fmt.Errorf("failed to get screen size: %v", err)
		}

		value, ok := response["value"].(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid screen size response format")
		}

		size, ok := value["screenSize"].(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid screen size response format")
		}

		scale, _ := value["scale"].(float64)
		width, _ := size["width"].(float64)
		height, _ := size["height"].(float64)

		screenSize = &types.ScreenSize{
			Width:  int(width),
			Height: int(height),
			Scale:  int(scale),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return screenSize, nil
}
