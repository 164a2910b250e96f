package wda

import "fmt"

func (c *Client) SendKeys(text string) error {
	return c.withSession(func(sessionID string) error {
		_, err := c.PostEndpoint(fmt.Sprintf("session/%s/wda/keys", sessionID), map[string]interface{}{
			"value": []string{text},
		})
		return err
	})
}
