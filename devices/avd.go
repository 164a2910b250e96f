package devices

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"
)

// AVDInfo represents information about an Android Virtual Device,
// read from the AVD manager's ini files.
type AVDInfo struct {
	Name        string
	DisplayName string
	Device      string
	APILevel    string
	Version     string
}

// apiLevelToVersion maps Android API levels to version strings
var apiLevelToVersion = map[string]string{
	"36": "16.0",
	"35": "15.0",
	"34": "14.0",
	"33": "13.0",
	"32": "12.1", // Android 12L
	"31": "12.0",
	"30": "11.0",
	"29": "10.0",
	"28": "9.0",
	"27": "8.1",
	"26": "8.0",
	"25": "7.1",
	"24": "7.0",
	"23": "6.0",
	"22": "5.1",
	"21": "5.0",
}

func convertAPILevelToVersion(apiLevel string) string {
	if version, ok := apiLevelToVersion[apiLevel]; ok {
		return version
	}
	return apiLevel
}

var sysdirAPIRe = regexp.MustCompile(`android-(\d+)`)

// getAVDDetails reads AVD metadata from ~/.android/avd.
func getAVDDetails() (map[string]AVDInfo, error) {
	avdMap := make(map[string]AVDInfo)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return avdMap, err
	}

	pattern := filepath.Join(homeDir, ".android", "avd", "*.ini")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return avdMap, err
	}

	for _, iniPath := range matches {
		name := strings.TrimSuffix(filepath.Base(iniPath), ".ini")

		cfg, err := ini.Load(iniPath)
		if err != nil {
			continue
		}

		info := AVDInfo{Name: name}

		avdPath := cfg.Section("").Key("path").String()
		if avdPath != "" {
			if config, err := ini.Load(filepath.Join(avdPath, "config.ini")); err == nil {
				section := config.Section("")
				info.DisplayName = section.Key("avd.ini.displayname").String()
				info.Device = section.Key("hw.device.name").String()

				if m := sysdirAPIRe.FindStringSubmatch(section.Key("image.sysdir.1").String()); m != nil {
					info.APILevel = m[1]
					info.Version = convertAPILevelToVersion(m[1])
				}
			}
		}

		avdMap[name] = info
	}

	return avdMap, nil
}

// MatchesAVDName compares an AVD name against a device name, treating
// underscores and spaces as equivalent.
func MatchesAVDName(avdName, deviceName string) bool {
	normalize := func(s string) string {
		return strings.ReplaceAll(s, "_", " ")
	}
	return normalize(avdName) == normalize(deviceName)
}
