package wda

import (
	"encoding/base64"
	"fmt"
)

// TakeScreenshot returns a PNG capture of the device screen.
func (c *Client) TakeScreenshot() ([]byte, error) {
	response, err := c.GetEndpoint("screenshot")
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %v", err)
	}

	data, ok := response["value"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid screenshot response format")
	}

	screenshotBytes, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %v", err)
	}

	return screenshotBytes, nil
}
