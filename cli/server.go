package cli

import (
	"fmt"

	"github.com/mobile-next/mobile-mcp/daemon"
	"github.com/mobile-next/mobile-mcp/server"
	"github.com/spf13/cobra"
)

const defaultServerAddress = "localhost:12100"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the mobile-mcp server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the MCP server",
	Long:  `Starts the MCP server on the selected transport. The default stdio transport talks to the MCP client over this process's standard streams; sse and http listen on a network address.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetBool/GetString cannot fail for defined flags
		transport, _ := cmd.Flags().GetString("transport")
		listenAddr, _ := cmd.Flags().GetString("listen")
		enableCORS, _ := cmd.Flags().GetBool("cors")
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		if listenAddr == "" {
			listenAddr = defaultServerAddress
		}

		if isDaemon {
			if transport == "stdio" {
				return fmt.Errorf("daemon mode requires a network transport (sse or http)")
			}

			if !daemon.IsChild() {
				_, err := daemon.Daemonize()
				if err != nil {
					return fmt.Errorf("failed to start daemon: %w", err)
				}

				fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
				return nil
			}
		}

		return server.NewServer().Serve(server.Config{
			Transport:  transport,
			ListenAddr: listenAddr,
			EnableCORS: enableCORS,
		})
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop a daemonized MCP server",
	Long:  `Connects to a running server on a network transport and asks it to shut down.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = defaultServerAddress
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("transport", "stdio", "Transport to serve on: stdio, sse or http")
	serverStartCmd.Flags().String("listen", "", fmt.Sprintf("Address to listen on for network transports (default: %s)", defaultServerAddress))
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support on network transports")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", defaultServerAddress))
}
