package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/nirctl/internal/metrics"
	"github.com/mj1618/nirctl/internal/server"
	"github.com/mj1618/nirctl/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing nirctl tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes freeze, group and
nircmd commands as tools. AI agents can call tools directly without shell overhead.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  nirctl serve
  nirctl serve --transport streamable-http --port 8080
  nirctl serve --cache-ttl 0 --metrics-listen 127.0.0.1:9464`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Window list cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().String("metrics-listen", "", "Serve Prometheus metrics on this address (default from config metrics.listen)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	metricsAddr, _ := cmd.Flags().GetString("metrics-listen")

	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	log := a.Logger()

	if metricsAddr == "" {
		metricsAddr = a.Config().Metrics.Listen
	}
	if metricsAddr != "" {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		go func() {
			if err := metrics.Serve(metricsAddr); err != nil {
				log.Error("metrics server stopped", "addr", metricsAddr, "error", err)
			}
		}()
		log.Info("metrics listening", "addr", metricsAddr)
	}

	cfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Version:   version.Version,
	}
	return server.New(a, cfg, log).Serve(cfg)
}
