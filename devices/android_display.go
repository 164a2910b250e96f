package devices

import (
	"regexp"
	"strings"

	"github.com/mobile-next/mobile-mcp/utils"
)

// Multi-display hardware (foldables, car head-units) needs screencap
// pointed at the powered-on panel. Three report formats exist across
// android versions, tried in order; an empty result means "use the
// default capture path".

var (
	cmdDisplayRe      = regexp.MustCompile(`state ON[^\n]*uniqueId "local:(\d+)"`)
	dumpsysViewportRe = regexp.MustCompile(`isActive=true[^}]*uniqueId='local:(\d+)'`)
	dumpsysStateRe    = regexp.MustCompile(`Display Id=(\d+)\s+Display State=ON`)
)

// parseDisplayIdFromCmdDisplay extracts the physical id of the first
// powered-on display from `cmd display get-displays` output.
func parseDisplayIdFromCmdDisplay(output string) string {
	if m := cmdDisplayRe.FindStringSubmatch(output); m != nil {
		return m[1]
	}
	return ""
}

// parseDisplayIdFromDumpsysViewport extracts the physical id of the
// first active viewport from `dumpsys display` output.
func parseDisplayIdFromDumpsysViewport(dumpsys string) string {
	if m := dumpsysViewportRe.FindStringSubmatch(dumpsys); m != nil {
		return m[1]
	}
	return ""
}

// parseDisplayIdFromDumpsysState extracts the logical id of the first
// display reporting state ON from the "Display States" section.
func parseDisplayIdFromDumpsysState(dumpsys string) string {
	if m := dumpsysStateRe.FindStringSubmatch(dumpsys); m != nil {
		return m[1]
	}
	return ""
}

// countDisplays counts "Display id N:" lines in `cmd display
// get-displays` output.
func countDisplays(output string) int {
	return strings.Count(output, "Display id ")
}

// activeDisplayID returns the display to capture from, or "" when the
// device has a single display (the default path is kept for backward
// compatibility).
func (d *AndroidRobot) activeDisplayID() string {
	output, err := d.run("shell", "cmd", "display", "get-displays")
	if err == nil && countDisplays(string(output)) > 1 {
		if id := parseDisplayIdFromCmdDisplay(string(output)); id != "" {
			return id
		}
	} else if err == nil {
		return ""
	}

	dumpsys, err := d.run("shell", "dumpsys", "display")
	if err != nil {
		utils.Verbose("dumpsys display failed on %s: %v", d.id, err)
		return ""
	}

	if strings.Count(string(dumpsys), "DisplayViewport{") <= 1 &&
		strings.Count(string(dumpsys), "Display Id=") <= 1 {
		return ""
	}

	if id := parseDisplayIdFromDumpsysViewport(string(dumpsys)); id != "" {
		return id
	}

	return parseDisplayIdFromDumpsysState(string(dumpsys))
}
