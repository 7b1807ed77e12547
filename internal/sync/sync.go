// ABOUTME: Reconciles the local workout library with the remote catalogue.
// ABOUTME: Uploads, downloads and deletes in bulk with per-item reporting.
package sync

import (
	"context"
	"errors"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/trainer/internal/compiler"
	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/garmin"
	"github.com/harperreed/trainer/internal/plan"
)

// Service is the remote surface the syncer needs. *garmin.Service satisfies
// it; tests substitute a fake.
type Service interface {
	ListWorkouts(ctx context.Context) ([]garmin.WorkoutSummary, error)
	GetWorkout(ctx context.Context, id int64) (*compiler.WireWorkout, error)
	AddWorkout(ctx context.Context, ww *compiler.WireWorkout) (int64, error)
	UpdateWorkout(ctx context.Context, id int64, ww *compiler.WireWorkout) error
	DeleteWorkout(ctx context.Context, id int64) error
}

// Catalogue caches the remote name-to-id mapping between runs.
type Catalogue interface {
	PutCatalogue(entries map[string]int64) error
}

// ItemError records one failed workout inside a bulk operation.
type ItemError struct {
	Name string
	Err  error
}

// Report summarises a bulk operation.
type Report struct {
	Imported int
	Updated  int
	Skipped  int
	Deleted  int
	Errored  int
	Errors   []ItemError
}

func (r *Report) fail(name string, err error) {
	r.Errored++
	r.Errors = append(r.Errors, ItemError{Name: name, Err: err})
}

// UploadOptions control one upload run.
type UploadOptions struct {
	// Replace overwrites remote workouts that share a name; otherwise they
	// are skipped.
	Replace bool
	// NameFilter restricts the run to matching workout names, nil means all.
	NameFilter *regexp.Regexp
	// Compile is passed through to the workout compiler.
	Compile compiler.Options
}

// Syncer pushes and pulls workouts between a plan and the remote service.
// Operations run sequentially; one request is in flight at a time.
type Syncer struct {
	service Service
	cache   Catalogue

	// OnProgress, when set, is called before each item is processed.
	OnProgress func(current, total int, name string)
}

// New builds a syncer. cache may be nil.
func New(service Service, cache Catalogue) *Syncer {
	return &Syncer{service: service, cache: cache}
}

func (s *Syncer) progress(current, total int, name string) {
	if s.OnProgress != nil {
		s.OnProgress(current, total, name)
	}
}

// remoteIndex lists the remote catalogue and refreshes the cache.
func (s *Syncer) remoteIndex(ctx context.Context) (map[string]int64, error) {
	remote, err := s.service.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int64, len(remote))
	for _, r := range remote {
		index[r.WorkoutName] = r.WorkoutID
	}
	if s.cache != nil {
		if err := s.cache.PutCatalogue(index); err != nil {
			log.Warnf("catalogue cache update failed: %v", err)
		}
	}
	return index, nil
}

// Upload compiles the plan's workouts and reconciles them against the remote
// catalogue by name. Authentication failures abort the run; other per-item
// failures are recorded and the run continues.
func (s *Syncer) Upload(ctx context.Context, p *plan.Plan, opts UploadOptions) (*Report, error) {
	report := &Report{}

	index, err := s.remoteIndex(ctx)
	if err != nil {
		return report, err
	}

	var selected []*plan.Workout
	for _, w := range p.Workouts {
		if opts.NameFilter != nil && !opts.NameFilter.MatchString(w.Name) {
			continue
		}
		selected = append(selected, w)
	}

	for i, w := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		name := uploadName(p.Config, w.Name)
		s.progress(i+1, len(selected), name)

		ww, err := compiler.Compile(w, p.Config, opts.Compile)
		if err != nil {
			report.fail(name, err)
			continue
		}
		ww.WorkoutName = name

		id, exists := index[name]
		switch {
		case exists && !opts.Replace:
			log.Infof("skipping %s, already on remote", name)
			report.Skipped++
		case exists:
			if err := s.service.UpdateWorkout(ctx, id, ww); err != nil {
				if abortable(err) {
					return report, err
				}
				report.fail(name, err)
				continue
			}
			report.Updated++
		default:
			newID, err := s.service.AddWorkout(ctx, ww)
			if err != nil {
				if abortable(err) {
					return report, err
				}
				report.fail(name, err)
				continue
			}
			index[name] = newID
			report.Imported++
		}
	}
	return report, nil
}

// Download pulls matching remote workouts into the plan, inserting or
// replacing by name.
func (s *Syncer) Download(ctx context.Context, p *plan.Plan, filter *regexp.Regexp) (*Report, error) {
	report := &Report{}

	remote, err := s.service.ListWorkouts(ctx)
	if err != nil {
		return report, err
	}

	var selected []garmin.WorkoutSummary
	for _, r := range remote {
		if filter != nil && !filter.MatchString(r.WorkoutName) {
			continue
		}
		selected = append(selected, r)
	}

	for i, r := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.progress(i+1, len(selected), r.WorkoutName)

		ww, err := s.service.GetWorkout(ctx, r.WorkoutID)
		if err != nil {
			if abortable(err) {
				return report, err
			}
			report.fail(r.WorkoutName, err)
			continue
		}
		w, err := compiler.Decompile(ww)
		if err != nil {
			report.fail(r.WorkoutName, err)
			continue
		}
		if p.ByName(w.Name) != nil {
			report.Updated++
		} else {
			report.Imported++
		}
		p.Upsert(w)
	}
	return report, nil
}

// Delete removes the given remote workout ids, continuing past per-item
// failures.
func (s *Syncer) Delete(ctx context.Context, ids []int64, names map[int64]string) (*Report, error) {
	report := &Report{}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		name := names[id]
		s.progress(i+1, len(ids), name)

		if err := s.service.DeleteWorkout(ctx, id); err != nil {
			if abortable(err) {
				return report, err
			}
			report.fail(name, err)
			continue
		}
		report.Deleted++
	}
	return report, nil
}

// MatchRemote lists remote workouts whose names match the filter.
func (s *Syncer) MatchRemote(ctx context.Context, filter *regexp.Regexp) ([]garmin.WorkoutSummary, error) {
	remote, err := s.service.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	var out []garmin.WorkoutSummary
	for _, r := range remote {
		if filter == nil || filter.MatchString(r.WorkoutName) {
			out = append(out, r)
		}
	}
	return out, nil
}

// uploadName prepends the configured prefix unless already present.
func uploadName(cfg *config.Training, name string) string {
	if cfg == nil || cfg.NamePrefix == "" {
		return name
	}
	if strings.HasPrefix(name, cfg.NamePrefix) {
		return name
	}
	return cfg.NamePrefix + name
}

// abortable reports whether an error should stop the whole bulk run.
func abortable(err error) bool {
	var ae *garmin.AuthError
	return errors.As(err, &ae)
}
