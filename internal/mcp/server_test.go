// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Exercises handlers directly against a fake remote service.
package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/trainer/internal/compiler"
	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/garmin"
	"github.com/harperreed/trainer/internal/plan"
)

type fakeService struct {
	remote    []garmin.WorkoutSummary
	byID      map[int64]*compiler.WireWorkout
	deleted   []int64
	scheduled map[int64]string
}

func newFakeService() *fakeService {
	return &fakeService{
		byID:      map[int64]*compiler.WireWorkout{},
		scheduled: map[int64]string{},
	}
}

func (f *fakeService) ListWorkouts(ctx context.Context) ([]garmin.WorkoutSummary, error) {
	return f.remote, nil
}

func (f *fakeService) GetWorkout(ctx context.Context, id int64) (*compiler.WireWorkout, error) {
	ww, ok := f.byID[id]
	if !ok {
		return nil, &garmin.NotFoundError{Resource: "workout"}
	}
	return ww, nil
}

func (f *fakeService) AddWorkout(ctx context.Context, ww *compiler.WireWorkout) (int64, error) {
	return 0, nil
}

func (f *fakeService) UpdateWorkout(ctx context.Context, id int64, ww *compiler.WireWorkout) error {
	return nil
}

func (f *fakeService) DeleteWorkout(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) ScheduleWorkout(ctx context.Context, id int64, date time.Time) (int64, error) {
	f.scheduled[id] = date.Format("2006-01-02")
	return 900 + id, nil
}

func testServer(t *testing.T) (*Server, *fakeService) {
	t.Helper()
	svc := newFakeService()
	cfg := &config.Training{
		Paces:      map[string]string{"Z4": "4:30"},
		HeartRates: map[string]string{"Z1_HR": "120-140"},
	}
	server, err := NewServer(svc, cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server, svc
}

func TestNewServer(t *testing.T) {
	server, _ := testServer(t)
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.service == nil {
		t.Error("Expected non-nil service")
	}
}

func TestHandleListWorkouts(t *testing.T) {
	server, svc := testServer(t)
	svc.remote = []garmin.WorkoutSummary{
		{WorkoutID: 1, WorkoutName: "PLAN_ W01S01 Easy", SportType: compiler.WireSportType{SportTypeID: 1, SportTypeKey: "running"}},
		{WorkoutID: 2, WorkoutName: "evening spin", SportType: compiler.WireSportType{SportTypeID: 2, SportTypeKey: "cycling"}},
	}

	_, out, err := server.handleListWorkouts(context.Background(), nil, listWorkoutsInput{NameFilter: "^PLAN_ "})
	if err != nil {
		t.Fatalf("handleListWorkouts: %v", err)
	}
	summaries, ok := out.([]workoutSummaryOutput)
	if !ok {
		t.Fatalf("output type %T", out)
	}
	if len(summaries) != 1 || summaries[0].ID != 1 {
		t.Errorf("summaries = %+v", summaries)
	}

	_, _, err = server.handleListWorkouts(context.Background(), nil, listWorkoutsInput{NameFilter: "("})
	if err == nil {
		t.Error("expected error for a bad regex")
	}
}

func TestHandleGetWorkout(t *testing.T) {
	server, svc := testServer(t)

	steps, err := plan.ParseStepList([]any{
		map[string]any{"interval": "5min @hr 120-140"},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ww, err := compiler.Compile(&plan.Workout{Name: "Fetched", Sport: plan.SportRunning, Steps: steps},
		&config.Training{}, compiler.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	svc.byID[7] = ww

	_, out, err := server.handleGetWorkout(context.Background(), nil, getWorkoutInput{ID: 7})
	if err != nil {
		t.Fatalf("handleGetWorkout: %v", err)
	}
	if out.Name != "Fetched" || out.Sport != "running" {
		t.Errorf("output = %+v", out)
	}
	if !strings.Contains(out.Steps, "interval: 5min") {
		t.Errorf("steps text = %q", out.Steps)
	}

	if _, _, err := server.handleGetWorkout(context.Background(), nil, getWorkoutInput{ID: 99}); err == nil {
		t.Error("expected error for a missing workout")
	}
}

func TestHandleScheduleWorkout(t *testing.T) {
	server, svc := testServer(t)

	_, out, err := server.handleScheduleWorkout(context.Background(), nil, scheduleWorkoutInput{ID: 3, Date: "2025-06-10"})
	if err != nil {
		t.Fatalf("handleScheduleWorkout: %v", err)
	}
	if out.ScheduleID != 903 {
		t.Errorf("schedule id = %d", out.ScheduleID)
	}
	if svc.scheduled[3] != "2025-06-10" {
		t.Errorf("scheduled = %v", svc.scheduled)
	}

	if _, _, err := server.handleScheduleWorkout(context.Background(), nil, scheduleWorkoutInput{ID: 3, Date: "June 10"}); err == nil {
		t.Error("expected error for a bad date")
	}
}

func TestHandleDeleteWorkout(t *testing.T) {
	server, svc := testServer(t)
	_, out, err := server.handleDeleteWorkout(context.Background(), nil, getWorkoutInput{ID: 5})
	if err != nil {
		t.Fatalf("handleDeleteWorkout: %v", err)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != 5 {
		t.Errorf("deleted = %v", svc.deleted)
	}
	if out.Message == "" {
		t.Error("expected a confirmation message")
	}
}

func TestHandleGenerateFartlek(t *testing.T) {
	server, _ := testServer(t)

	_, out, err := server.handleGenerateFartlek(context.Background(), nil, generateFartlekInput{
		Duration:   "40min",
		TargetPace: "5:00",
		Seed:       42,
	})
	if err != nil {
		t.Fatalf("handleGenerateFartlek: %v", err)
	}
	if !strings.Contains(out.Steps, "warmup:") || !strings.Contains(out.Steps, "cooldown:") {
		t.Errorf("steps = %q", out.Steps)
	}

	// Same seed, same workout.
	_, again, err := server.handleGenerateFartlek(context.Background(), nil, generateFartlekInput{
		Duration:   "40min",
		TargetPace: "5:00",
		Seed:       42,
	})
	if err != nil {
		t.Fatalf("handleGenerateFartlek: %v", err)
	}
	if out.Steps != again.Steps {
		t.Error("seeded generation is not reproducible")
	}

	if _, _, err := server.handleGenerateFartlek(context.Background(), nil, generateFartlekInput{
		Duration:   "5min",
		TargetPace: "5:00",
	}); err == nil {
		t.Error("expected error for a too-short fartlek")
	}
}

func TestLibraryResource(t *testing.T) {
	server, svc := testServer(t)
	svc.remote = []garmin.WorkoutSummary{{WorkoutID: 1, WorkoutName: "PLAN_ W01S01 Easy"}}

	res, err := server.handleLibraryResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleLibraryResource: %v", err)
	}
	if len(res.Contents) != 1 || !strings.Contains(res.Contents[0].Text, "PLAN_ W01S01 Easy") {
		t.Errorf("resource = %+v", res.Contents)
	}
}

func TestZonesResource(t *testing.T) {
	server, _ := testServer(t)
	res, err := server.handleZonesResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleZonesResource: %v", err)
	}
	if !strings.Contains(res.Contents[0].Text, "Z4") {
		t.Errorf("zones resource = %q", res.Contents[0].Text)
	}
}
