package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/notify"
	"github.com/sitewire/sitewire/internal/present"
	"github.com/sitewire/sitewire/internal/session"
	"github.com/sitewire/sitewire/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as MCP server",
	Long: `Run as an MCP (Model Context Protocol) server exposing the site
interaction tools to AI assistants over stdio.`,
	Run: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := newLogger()

	// MCP callers read routed outcomes from a capture presenter; nothing
	// is rendered to the terminal.
	capture := present.NewCapture()
	s, err := session.New(cfg, log,
		session.WithPresenter(capture),
		session.WithToasterFactory(func() notify.Toaster { return silentToaster{} }),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    appName,
			Version: appVersion,
		},
		&mcp.ServerOptions{
			HasTools: true,
			Instructions: `Site interaction server for a CMS campaign site.

Available tools:
- site_fetch: Fetch a page through the response cache (optionally prefetch only)
- site_submit: Submit a form and report validation errors or success
- site_search: Search the site and return the result set
- site_notifications: Poll pending notifications
- site_chrome: Load the navbar and favicon snippets`,
		},
	)

	tools.NewSiteTools(s, capture).Register(server)

	log.Info().Str("version", appVersion).Msg("starting MCP server")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if ctx.Err() == nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}
}

type silentToaster struct{}

func (silentToaster) ShowToast(message string, severity envelope.Severity) {}
