package types

import "time"

// DeviceInfo represents the JSON-friendly device information
type DeviceInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform"` // "ios" or "android"
	Type     string `json:"type"`     // "real", "emulator" or "simulator"
	Version  string `json:"version,omitempty"`
}

// InstalledApp represents information about an installed application.
// PackageName is the bundle identifier on ios.
type InstalledApp struct {
	PackageName string `json:"packageName"`
	AppName     string `json:"appName,omitempty"`
	Version     string `json:"version,omitempty"`
}

// DeviceLog is a single entry from the platform log stream.
type DeviceLog struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // VERBOSE, DEBUG, INFO, WARNING, ERROR
	Tag       string    `json:"tag"`
	PID       int       `json:"pid"`
	Text      string    `json:"text"`
}
