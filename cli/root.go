package cli

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mobile-next/mobile-mcp/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mobile-mcp",
	Short: "An MCP server for iOS/Android device automation",
	Long:  `Exposes mobile-device automation tools (tap, swipe, type, screenshot, app lifecycle) to MCP clients, over iOS and Android devices, simulators and emulators.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func initConfig() {
	utils.SetVerbose(verbose)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command
func Execute() error {
	// enable microseconds in logs
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(jsonData))
}
