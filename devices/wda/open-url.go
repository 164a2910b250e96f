package wda

import "fmt"

func (c *Client) OpenURL(url string) error {
	return c.withSession(func(sessionID string) error {
		_, err := c.PostEndpoint(fmt.Sprintf("session/%s/url", sessionID), map[string]interface{}{
			"url": url,
		})
		if err != nil {
			return fmt.Errorf("failed to open URL: %v", err)
		}
		return nil
	})
}
