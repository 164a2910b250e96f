package cli

import (
	"fmt"

	"github.com/mobile-next/mobile-mcp/server"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Manage the bearer token protecting the network transports. The stdio transport never requires authentication.`,
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store the API bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.StoreToken(args[0]); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		fmt.Println("Token stored. Network transports now require it as a bearer token.")
		return nil
	},
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Display the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := server.StoredToken()
		if token == "" {
			return fmt.Errorf("no token stored")
		}

		fmt.Println(token)
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.DeleteToken(); err != nil {
			fmt.Println("no token stored")
			return nil
		}

		fmt.Println("Token removed. Network transports are now unauthenticated.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.AddCommand(authSetTokenCmd)
	authCmd.AddCommand(authTokenCmd)
	authCmd.AddCommand(authClearCmd)
}
