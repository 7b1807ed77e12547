// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant
integration. The server talks to the remote workout library on behalf of
the assistant, communicating via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "trainer": {
        "command": "trainer",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_workouts     List remote workouts, optionally filtered by regex
  get_workout       Fetch a workout decompiled to step text
  schedule_workout  Place a workout on a calendar date
  delete_workout    Remove a workout from the library
  generate_fartlek  Generate a randomised fartlek workout

AVAILABLE RESOURCES:

  trainer://library  Remote workout library listing
  trainer://zones    Configured pace, heart rate and power zones
  trainer://syntax   Workout step language reference`,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return err
		}
		cfg, err := appConfig.GetTraining()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(service, cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
