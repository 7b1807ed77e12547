// ABOUTME: MCP resource implementations for the workout library.
// ABOUTME: Provides trainer://library, trainer://zones and trainer://syntax.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// trainer://library - current remote workout catalogue
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainer://library",
		Name:        "Remote Workout Library",
		Description: "All workouts currently in the remote library",
		MIMEType:    "application/json",
	}, s.handleLibraryResource)

	// trainer://zones - configured pace, power and heart-rate zones
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainer://zones",
		Name:        "Training Zones",
		Description: "Configured pace, power and heart-rate zones",
		MIMEType:    "application/json",
	}, s.handleZonesResource)

	// trainer://syntax - the step text syntax reference
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainer://syntax",
		Name:        "Workout Step Syntax",
		Description: "Reference for the textual workout step form",
		MIMEType:    "text/plain",
	}, s.handleSyntaxResource)
}

// Resource handlers

func (s *Server) handleLibraryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	remote, err := s.service.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	data, err := json.MarshalIndent(remote, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal library: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "trainer://library",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleZonesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	zones := map[string]any{}
	if s.cfg != nil {
		zones["paces"] = s.cfg.Paces
		zones["swim_paces"] = s.cfg.SwimPaces
		zones["power_values"] = s.cfg.PowerValues
		zones["heart_rates"] = s.cfg.HeartRates
	}

	data, err := json.MarshalIndent(zones, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal zones: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "trainer://zones",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

const syntaxReference = `Workout steps, one per line:

  <kind>: <duration?> <target?> -- <description?>

Kinds: warmup, interval, recovery, cooldown, rest, other.
Durations: 10min, 30s, 1h, mm:ss; distances: 1km, 400m; omit for lap button.
Targets: @Z4 (pace or power by sport), @hr Z3_HR, @pwr threshold, @spd 30-35.
Repeats indent their children by two spaces:

  repeat: 4
    interval: 1km @Z4
    recovery: 2min @hr Z1_HR
`

func (s *Server) handleSyntaxResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "trainer://syntax",
			MIMEType: "text/plain",
			Text:     syntaxReference,
		}},
	}, nil
}
