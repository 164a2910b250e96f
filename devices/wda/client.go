// Package wda is an HTTP client for the WebDriverAgent automation
// agent running on an iOS device or simulator.
package wda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mobile-next/mobile-mcp/utils"
)

const (
	defaultRequestTimeout = 5 * time.Second
	sourceRequestTimeout  = 60 * time.Second
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(hostPort string) *Client {
	baseURL := hostPort
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: sourceRequestTimeout,
		},
	}
}

func (c *Client) request(method, endpoint string, data interface{}, timeout time.Duration) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %v", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %v", method, endpoint, err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("invalid JSON response from %s: %v", endpoint, err)
	}

	return result, nil
}

func (c *Client) GetEndpoint(endpoint string) (map[string]interface{}, error) {
	return c.request("GET", endpoint, nil, defaultRequestTimeout)
}

func (c *Client) getEndpointWithTimeout(endpoint string, timeout time.Duration) (map[string]interface{}, error) {
	return c.request("GET", endpoint, nil, timeout)
}

func (c *Client) PostEndpoint(endpoint string, data interface{}) (map[string]interface{}, error) {
	return c.request("POST", endpoint, data, defaultRequestTimeout)
}

func (c *Client) DeleteEndpoint(endpoint string) (map[string]interface{}, error) {
	return c.request("DELETE", endpoint, nil, defaultRequestTimeout)
}

// Status queries WDA's /status endpoint, the readiness signal.
func (c *Client) Status() (map[string]interface{}, error) {
	return c.GetEndpoint("status")
}

// WaitForReady polls the status endpoint until the agent responds or
// the timeout expires.
func (c *Client) WaitForReady(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for WebDriverAgent to be ready after %s", timeout)

		case <-ticker.C:
			if _, err := c.Status(); err != nil {
				utils.Verbose("WebDriverAgent not ready yet: %v", err)
				continue
			}

			utils.Verbose("WebDriverAgent is ready")
			return nil
		}
	}
}

func (c *Client) CreateSession() (string, error) {
	response, err := c.PostEndpoint("session", map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": map[string]interface{}{
				"platformName": "iOS",
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %v", err)
	}

	sessionID, ok := response["sessionId"].(string)
	if !ok {
		return "", fmt.Errorf("no sessionId in session response")
	}

	return sessionID, nil
}

func (c *Client) DeleteSession(sessionID string) error {
	_, err := c.DeleteEndpoint(fmt.Sprintf("session/%s", sessionID))
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %v", sessionID, err)
	}
	return nil
}

// withSession runs fn inside a fresh session that is torn down
// afterwards regardless of outcome.
func (c *Client) withSession(fn func(sessionID string) error) error {
	sessionID, err := c.CreateSession()
	if err != nil {
		return err
	}

	defer func() {
		if err := c.DeleteSession(sessionID); err != nil {
			utils.Verbose("%v", err)
		}
	}()

	return fn(sessionID)
}
