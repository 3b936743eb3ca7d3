package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts an MCP Server exposing the registered machines.
Agents can list and describe machines, run them on words, and read their
Mermaid graphs as resources.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		svc := loadServices(cmd)
		defer svc.Close()
		logger := svc.Logger

		srv := mcp.NewServer(svc.Engine,
			mcp.WithLogger(logger),
			mcp.WithMaxLimits(domain.Limits{Time: svc.Config.Server.MaxTime, Space: svc.Config.Server.MaxSpace}),
		)

		switch transport {
		case "stdio":
			logger.Info("Starting Turing MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				die(fmt.Errorf("MCP server: %w", err))
			}
		case "sse":
			logger.Info("Starting Turing MCP Server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				die(fmt.Errorf("MCP server: %w", err))
			}
			logger.Info("MCP Server stopped gracefully")
		default:
			die(fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport))
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
