package cli

import (
	"github.com/mobile-next/mobile-mcp/devices"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected devices",
	Long:  `List all connected iOS and Android devices, both real devices and simulators/emulators.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := devices.NewManager().ListDeviceInfo()
		if err != nil {
			return err
		}

		printJson(infos)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
