// ABOUTME: MCP tool implementations for the workout library.
// ABOUTME: List, fetch, schedule and delete remote workouts; generate fartleks.
package mcp

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/trainer/internal/compiler"
	"github.com/harperreed/trainer/internal/fartlek"
	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/units"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts in the remote library, optionally filtered by a name regex",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Fetch a remote workout and render its steps as text",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "schedule_workout",
		Description: "Place a remote workout on a calendar date",
	}, s.handleScheduleWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout from the remote library",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_fartlek",
		Description: "Generate a randomised fartlek workout around a target pace",
	}, s.handleGenerateFartlek)
}

// Tool input/output types

type listWorkoutsInput struct {
	NameFilter string `json:"name_filter,omitempty" jsonschema:"Regular expression applied to workout names"`
}

type workoutSummaryOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

type getWorkoutInput struct {
	ID int64 `json:"id" jsonschema:"Remote workout id"`
}

type workoutOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Sport string `json:"sport"`
	Steps string `json:"steps"`
}

type scheduleWorkoutInput struct {
	ID   int64  `json:"id" jsonschema:"Remote workout id"`
	Date string `json:"date" jsonschema:"Calendar date (YYYY-MM-DD)"`
}

type scheduleOutput struct {
	ScheduleID int64  `json:"schedule_id"`
	Message    string `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type generateFartlekInput struct {
	Duration   string `json:"duration" jsonschema:"Total duration (e.g. 40min or 45:00)"`
	TargetPace string `json:"target_pace" jsonschema:"Reference pace per km (mm:ss)"`
	Seed       int64  `json:"seed,omitempty" jsonschema:"Random seed for a reproducible workout"`
}

type fartlekOutput struct {
	Name  string `json:"name"`
	Steps string `json:"steps"`
}

// Tool handlers

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	var filter *regexp.Regexp
	if input.NameFilter != "" {
		var err error
		filter, err = regexp.Compile(input.NameFilter)
		if err != nil {
			return nil, nil, fmt.Errorf("bad name filter: %w", err)
		}
	}

	remote, err := s.service.ListWorkouts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list workouts: %w", err)
	}

	var out []workoutSummaryOutput
	for _, r := range remote {
		if filter != nil && !filter.MatchString(r.WorkoutName) {
			continue
		}
		out = append(out, workoutSummaryOutput{
			ID:    r.WorkoutID,
			Name:  r.WorkoutName,
			Sport: r.SportType.SportTypeKey,
		})
	}
	if len(out) == 0 {
		return nil, simpleOutput{Message: "No workouts found."}, nil
	}
	return nil, out, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input getWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	ww, err := s.service.GetWorkout(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("get workout %d: %w", input.ID, err)
	}
	w, err := compiler.Decompile(ww)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("decode workout %d: %w", input.ID, err)
	}
	return nil, workoutOutput{
		ID:    input.ID,
		Name:  w.Name,
		Sport: w.Sport.Key(),
		Steps: plan.FormatText(w.Steps),
	}, nil
}

func (s *Server) handleScheduleWorkout(ctx context.Context, req *mcp.CallToolRequest, input scheduleWorkoutInput) (*mcp.CallToolResult, scheduleOutput, error) {
	day, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, scheduleOutput{}, fmt.Errorf("bad date %q, want YYYY-MM-DD", input.Date)
	}
	id, err := s.service.ScheduleWorkout(ctx, input.ID, day)
	if err != nil {
		return nil, scheduleOutput{}, fmt.Errorf("schedule workout %d: %w", input.ID, err)
	}
	return nil, scheduleOutput{
		ScheduleID: id,
		Message:    fmt.Sprintf("Scheduled workout %d on %s", input.ID, input.Date),
	}, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input getWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.service.DeleteWorkout(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("delete workout %d: %w", input.ID, err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout %d", input.ID)}, nil
}

func (s *Server) handleGenerateFartlek(ctx context.Context, req *mcp.CallToolRequest, input generateFartlekInput) (*mcp.CallToolResult, fartlekOutput, error) {
	total, err := units.ParseDuration(input.Duration)
	if err != nil {
		return nil, fartlekOutput{}, fmt.Errorf("bad duration: %w", err)
	}
	pace, err := units.ParseDuration(input.TargetPace)
	if err != nil {
		return nil, fartlekOutput{}, fmt.Errorf("bad target pace: %w", err)
	}

	seed := input.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, err := fartlek.Generate(fartlek.Params{Total: total, TargetPace: pace}, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fartlekOutput{}, err
	}
	return nil, fartlekOutput{
		Name:  w.Name,
		Steps: plan.FormatText(w.Steps),
	}, nil
}
