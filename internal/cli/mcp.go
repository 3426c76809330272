package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/mcp"
	"github.com/vijay-prabhu/incomeadvisor/internal/metrics"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants read the catalog, record survey answers and request
recommendations on a user's behalf.

Add to an MCP client config:

{
  "mcpServers": {
    "incomeadvisor": {
      "command": "/path/to/incomeadvisor",
      "args": ["mcp"]
    }
  }
}

With --metrics-addr (or metrics.enabled in the config) Prometheus metrics are
served on http://<addr>/metrics while the server runs.`,
	RunE: runMCP,
}

var mcpMetricsAddr string

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer a.Close()

	// Check if MCP is enabled
	if !a.cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	// Handle interrupt
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	addr := mcpMetricsAddr
	if addr == "" && a.cfg.Metrics.Enabled {
		addr = a.cfg.Metrics.Addr
	}

	var m *metrics.Metrics
	if addr != "" {
		m = metrics.New()
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				a.log.Error("metrics server stopped", map[string]interface{}{"addr": addr, "error": err.Error()})
			}
		}()
		a.log.Info("serving metrics", map[string]interface{}{"addr": addr})
	}

	server := mcp.New(a.db, a.advisor(m), a.log, version)
	return server.Start(ctx)
}
