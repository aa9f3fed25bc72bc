package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"qbmerge/internal/adapters/filesystem"
	mcpadapter "qbmerge/internal/adapters/mcp"
	"qbmerge/internal/adapters/sqlite"
	"qbmerge/internal/config"
	"qbmerge/internal/ports"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("qbmerge-mcp: %v", err)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory holding qbmerge.yml and .env")
	noHistory := flag.Bool("no-history", false, "do not read or record merge history")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}
	if *noHistory {
		cfg.DisableHistory()
	}

	// stdout carries the protocol, so logs go to stderr
	logger := cfg.NewLogger(os.Stderr)
	repo := filesystem.NewRepository()

	var history ports.MergeHistory
	if cfg.HistoryEnabled() {
		h := sqlite.NewHistory()
		if err := h.Open(cfg.HistoryPath); err != nil {
			logger.Warn("merge history unavailable", "error", err)
		} else {
			defer h.Close()
			history = h
		}
	}

	mcpServer := server.NewMCPServer(
		"qbmerge-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, repo, history)
	mcpadapter.RegisterWriteTools(mcpServer, repo, history, logger)

	return server.ServeStdio(mcpServer)
}
