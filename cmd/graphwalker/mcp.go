package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hodaniel/graphwalker/internal/cli"
	"github.com/hodaniel/graphwalker/pkg/adapters/mcp"
	"github.com/hodaniel/graphwalker/pkg/observability"
	"github.com/hodaniel/graphwalker/pkg/session"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes online walking sessions as MCP tools, so AI agents can drive
a system under test along generated paths.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		target, _ := cmd.Flags().GetString("store")

		store, err := cli.OpenStore(target)
		if err != nil {
			return err
		}
		mgr := session.NewManager(store,
			session.WithLogger(logger),
			session.WithLifecycleHooks(observability.Logging(logger)),
		)
		srv := mcp.NewServer(mgr, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// The logger already writes to Stderr, so JSON-RPC on Stdout stays clean.
			logger.Info("Starting GraphWalker MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("store", "", "Model catalog: a directory (default .graphwalker/models) or redis://host:port/db")
}
