// ABOUTME: Remote workout service operations over the authenticated client.
// ABOUTME: Lists, CRUDs, schedules and unschedules workouts; fetches calendars.
package garmin

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/harperreed/trainer/internal/compiler"
)

// listPageLimit is the service's maximum page size; one page covers any
// realistic library.
const listPageLimit = 999

// WorkoutSummary is one row of the remote workout list.
type WorkoutSummary struct {
	WorkoutID   int64                  `json:"workoutId"`
	WorkoutName string                 `json:"workoutName"`
	SportType   compiler.WireSportType `json:"sportType"`
	CreatedMS   int64                  `json:"createdDate"`
}

// CalendarItem is one entry of a calendar month. ItemType "workout" denotes
// a scheduled workout; ID is then the schedule id.
type CalendarItem struct {
	ID        int64  `json:"id"`
	ItemType  string `json:"itemType"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	WorkoutID int64  `json:"workoutId"`
}

// CalendarMonth is the calendar response for one month.
type CalendarMonth struct {
	CalendarItems []CalendarItem `json:"calendarItems"`
}

// Activity is a completed activity summary, read-only.
type Activity struct {
	ActivityID     int64   `json:"activityId"`
	ActivityName   string  `json:"activityName"`
	StartTimeLocal string  `json:"startTimeLocal"`
	Distance       float64 `json:"distance"`
	Duration       float64 `json:"duration"`
}

// Service exposes the remote workout catalogue and training calendar.
type Service struct {
	client *Client
}

// NewService wraps a client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// ListWorkouts returns the remote workout list, up to one full page.
func (s *Service) ListWorkouts(ctx context.Context) ([]WorkoutSummary, error) {
	var out []WorkoutSummary
	path := fmt.Sprintf("/workout-service/workouts?start=0&limit=%d", listPageLimit)
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkout fetches the full wire JSON of one workout.
func (s *Service) GetWorkout(ctx context.Context, id int64) (*compiler.WireWorkout, error) {
	var out compiler.WireWorkout
	path := fmt.Sprintf("/workout-service/workout/%d", id)
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddWorkout creates a remote workout and returns its new id. Not
// idempotent: calling twice creates two workouts.
func (s *Service) AddWorkout(ctx context.Context, ww *compiler.WireWorkout) (int64, error) {
	var out struct {
		WorkoutID int64 `json:"workoutId"`
	}
	if err := s.client.do(ctx, "POST", "/workout-service/workout", ww, &out); err != nil {
		return 0, err
	}
	return out.WorkoutID, nil
}

// UpdateWorkout replaces a remote workout in place. Idempotent.
func (s *Service) UpdateWorkout(ctx context.Context, id int64, ww *compiler.WireWorkout) error {
	path := fmt.Sprintf("/workout-service/workout/%d", id)
	return s.client.do(ctx, "PUT", path, ww, nil)
}

// DeleteWorkout removes a remote workout. A missing id is a NotFoundError.
func (s *Service) DeleteWorkout(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/workout-service/workout/%d", id)
	return s.client.do(ctx, "DELETE", path, nil, nil)
}

// GetCalendar fetches a calendar month. The caller passes a 1-based month;
// the service path wants it 0-based.
func (s *Service) GetCalendar(ctx context.Context, year, month int) (*CalendarMonth, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range 1..12", month)
	}
	var out CalendarMonth
	path := fmt.Sprintf("/calendar-service/year/%d/month/%d", year, month-1)
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetActivities lists completed activities between two dates, capped.
func (s *Service) GetActivities(ctx context.Context, start, end time.Time, limit int) ([]Activity, error) {
	var out []Activity
	q := url.Values{}
	q.Set("startDate", start.Format("2006-01-02"))
	q.Set("endDate", end.Format("2006-01-02"))
	q.Set("limit", fmt.Sprintf("%d", limit))
	path := "/activitylist-service/activities/search/activities?" + q.Encode()
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScheduleWorkout places a workout on a calendar date and returns the
// schedule id.
func (s *Service) ScheduleWorkout(ctx context.Context, id int64, date time.Time) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	path := fmt.Sprintf("/workout-service/schedule/%d", id)
	body := map[string]string{"date": date.Format("2006-01-02")}
	if err := s.client.do(ctx, "POST", path, body, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UnscheduleWorkout removes one calendar placement by schedule id.
func (s *Service) UnscheduleWorkout(ctx context.Context, scheduleID int64) error {
	path := fmt.Sprintf("/workout-service/schedule/%d", scheduleID)
	return s.client.do(ctx, "DELETE", path, nil, nil)
}
