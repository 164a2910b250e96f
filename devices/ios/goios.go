// Package ios locates the go-ios tooling used to talk to physical iOS
// devices over usbmux.
package ios

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

const defaultWdaPort = 8100

// FindGoIosPath resolves the go-ios binary: GO_IOS_PATH, then "go-ios" or
// "ios" on PATH.
func FindGoIosPath() (string, error) {
	if envPath := os.Getenv("GO_IOS_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	if path, err := exec.LookPath("go-ios"); err == nil {
		return path, nil
	}

	if path, err := exec.LookPath("ios"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("neither go-ios nor ios found in PATH")
}

// WdaPort returns the local port WebDriverAgent is expected to listen on,
// honoring the WDA_PORT environment variable.
func WdaPort() int {
	if envPort := os.Getenv("WDA_PORT"); envPort != "" {
		if port, err := strconv.Atoi(envPort); err == nil && port > 0 && port < 65536 {
			return port
		}
	}

	return defaultWdaPort
}
