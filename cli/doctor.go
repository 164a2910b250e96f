package cli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type doctorInfo struct {
	Version     string `json:"version"`
	OS          string `json:"os"`
	AndroidHome string `json:"android_home,omitempty"`
	ADBPath     string `json:"adb_path,omitempty"`
	ADBVersion  string `json:"adb_version,omitempty"`
	GoIosPath   string `json:"go_ios_path,omitempty"`
	SimctlPath  string `json:"simctl_path,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Long:  `Reports where the native device tooling was found, for troubleshooting device discovery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := doctorInfo{
			Version:     version,
			OS:          runtime.GOOS,
			AndroidHome: os.Getenv("ANDROID_HOME"),
		}

		info.ADBPath = findBinary("ADB_PATH", "adb")
		if info.ADBPath == "" && info.AndroidHome != "" {
			candidate := filepath.Join(info.AndroidHome, "platform-tools", "adb")
			if _, err := os.Stat(candidate); err == nil {
				info.ADBPath = candidate
			}
		}

		if info.ADBPath != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			output, err := exec.CommandContext(ctx, info.ADBPath, "--version").CombinedOutput()
			cancel()
			if err == nil {
				info.ADBVersion = strings.TrimSpace(strings.Split(string(output), "\n")[0])
			}
		}

		info.GoIosPath = findBinary("GO_IOS_PATH", "go-ios", "ios")
		info.SimctlPath = findBinary("", "xcrun")

		printJson(info)
		return nil
	},
}

// findBinary resolves the first available binary: env var override
// first, then names on PATH.
func findBinary(envVar string, names ...string) string {
	if envVar != "" {
		if envPath := os.Getenv(envVar); envPath != "" {
			if _, err := os.Stat(envPath); err == nil {
				return envPath
			}
		}
	}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
