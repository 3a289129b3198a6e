package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/castrhq/castr/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: castr mcp\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "Run the castr MCP server over stdio.\n\n")
		_, _ = fmt.Fprintf(fs.Output(), "The server exposes the build, ir, graph, and reverse tools to MCP\n")
		_, _ = fmt.Fprintf(fs.Output(), "clients. It reads requests from stdin and writes responses to stdout,\n")
		_, _ = fmt.Fprintf(fs.Output(), "so it is meant to be launched by an MCP client, not used directly.\n")
	}

	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx)
}
