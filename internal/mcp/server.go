// ABOUTME: MCP server exposing the workout library to assistants.
// ABOUTME: Wraps the remote service and the fartlek generator behind tools.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/sync"
)

// Service is the remote surface the tools need. *garmin.Service satisfies it.
type Service interface {
	sync.Service
	ScheduleWorkout(ctx context.Context, id int64, date time.Time) (int64, error)
}

// Server wraps the MCP server with the remote workout service.
type Server struct {
	mcpServer *mcp.Server
	service   Service
	cfg       *config.Training
}

// NewServer creates an MCP server over the remote service. cfg may be nil
// when no plan is loaded; tools that need it report that to the caller.
func NewServer(service Service, cfg *config.Training) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "trainer",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		service:   service,
		cfg:       cfg,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
