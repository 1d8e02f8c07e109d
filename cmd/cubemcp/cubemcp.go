// Package cubemcpcmder
package cubemcpcmder

import (
	servecmder "github.com/cubestack/cubemcp/cmd/cubemcp/serve"
	versioncmder "github.com/cubestack/cubemcp/cmd/version"
	"github.com/spf13/cobra"
)

const cubemcpLongDesc string = `Cubemcp bridges an AI-assistant host to a Cube analytics agent
over the Model Context Protocol.

Run the server using:
  cubemcp serve            Serve MCP over stdio (default)
  cubemcp serve --listen   Serve MCP over streamable HTTP

Configuration is environment sourced:
  CUBE_API_KEY       Signing secret for the bearer credential (required)
  CUBE_TENANT_NAME   Cube tenant name (required)
  CUBE_AGENT_ID      Cube agent id (required)
  CUBE_API_URL       Cube API base URL (optional)`

const cubemcpShortDesc string = "Cubemcp - MCP server for Cube analytics chat"

func NewCubemcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cubemcp",
		Short: cubemcpShortDesc,
		Long:  cubemcpLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
