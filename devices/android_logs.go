package devices

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mobile-next/mobile-mcp/types"
)

var logcatLevels = map[string]string{
	"V": "VERBOSE",
	"D": "DEBUG",
	"I": "INFO",
	"W": "WARNING",
	"E": "ERROR",
	"F": "ERROR",
}

// DeviceLogs tails logcat over a bounded time window.
func (d *AndroidRobot) DeviceLogs(window time.Duration) ([]types.DeviceLog, error) {
	if window <= 0 {
		window = 60 * time.Second
	}

	since := time.Now().Add(-window).Format("01-02 15:04:05.000")
	output, err := d.runHeavy("logcat", "-d", "-v", "threadtime", "-t", since)
	if err != nil {
		return nil, fmt.Errorf("failed to read device logs: %v", err)
	}

	return parseLogcatOutput(string(output), time.Now().Year()), nil
}

// parseLogcatOutput parses threadtime-format lines:
// "08-30 12:01:02.345  1234  5678 I ActivityManager: message"
func parseLogcatOutput(output string, year int) []types.DeviceLog {
	var logs []types.DeviceLog

	for _, line := range strings.Split(output, "\n") {
		entry, ok := parseLogcatLine(line, year)
		if ok {
			logs = append(logs, entry)
		}
	}

	return logs
}

func parseLogcatLine(line string, year int) (types.DeviceLog, bool) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return types.DeviceLog{}, false
	}

	timestamp, err := time.ParseInLocation("2006-01-02 15:04:05.000",
		fmt.Sprintf("%d-%s %s", year, fields[0], fields[1]), time.Local)
	if err != nil {
		return types.DeviceLog{}, false
	}

	pid, err := strconv.Atoi(fields[2])
	if err != nil {
		return types.DeviceLog{}, false
	}

	level, ok := logcatLevels[fields[4]]
	if !ok {
		return types.DeviceLog{}, false
	}

	tag := strings.TrimSuffix(fields[5], ":")
	text := ""
	if idx := strings.Index(line, fields[5]); idx >= 0 {
		text = strings.TrimSpace(strings.TrimPrefix(line[idx:], fields[5]))
	}

	return types.DeviceLog{
		Timestamp: timestamp,
		Level:     level,
		Tag:       tag,
		PID:       pid,
		Text:      text,
	}, true
}
