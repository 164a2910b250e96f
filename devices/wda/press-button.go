package wda

import (
	"fmt"
	"sort"
	"strings"
)

var buttonMap = map[string]string{
	"HOME":        "home",
	"VOLUME_UP":   "volumeup",
	"VOLUME_DOWN": "volumedown",
}

func (c *Client) PressButton(button string) error {
	// ENTER has no hardware button on ios, it is a newline keystroke
	if button == "ENTER" {
		return c.SendKeys("\n")
	}

	translated, exists := buttonMap[button]
	if !exists {
		supported := make([]string, 0, len(buttonMap)+1)
		for k := range buttonMap {
			supported = append(supported, k)
		}
		supported = append(supported, "ENTER")
		sort.Strings(supported)
		return fmt.Errorf("unsupported button: %q, use one of %s", button, strings.Join(supported, ", "))
	}

	return c.withSession(func(sessionID string) error {
		_, err := c.PostEndpoint(fmt.Sprintf("session/%s/wda/pressButton", sessionID), map[string]interface{}{
			"name": translated,
		})
		if err != nil {
			return fmt.Errorf("failed to press button %s: %v", button, err)
		}
		return nil
	})
}
