// ABOUTME: Plan YAML codec: config block plus named workouts, order preserved.
// ABOUTME: Metadata pseudo-steps (sport_type, date) are split from real steps.
package plan

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/trainer/internal/config"
)

// Plan is a training block: optional configuration plus named workouts in
// authoring order.
type Plan struct {
	Config   *config.Training
	Workouts []*Workout
}

// ByName returns the workout with the given name, or nil.
func (p *Plan) ByName(name string) *Workout {
	for _, w := range p.Workouts {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// Upsert inserts a workout, replacing any existing one with the same name.
func (p *Plan) Upsert(w *Workout) {
	for i, existing := range p.Workouts {
		if existing.Name == w.Name {
			p.Workouts[i] = w
			return
		}
	}
	p.Workouts = append(p.Workouts, w)
}

// LoadFile reads a plan YAML file.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	p, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return p, nil
}

// Load parses a plan document. Top-level keys are either the literal
// "config" or workout names; workout order is preserved.
func Load(data []byte) (*Plan, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return &Plan{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("plan root must be a mapping")
	}

	p := &Plan{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		if keyNode.Value == "config" {
			var raw map[string]any
			if err := valNode.Decode(&raw); err != nil {
				return nil, fmt.Errorf("config block: %w", err)
			}
			cfg, err := config.LoadTraining(raw)
			if err != nil {
				return nil, err
			}
			p.Config = cfg
			continue
		}

		var items []any
		if err := valNode.Decode(&items); err != nil {
			return nil, fmt.Errorf("workout %q: expected step sequence: %w", keyNode.Value, err)
		}
		w, err := LoadWorkout(keyNode.Value, items)
		if err != nil {
			return nil, fmt.Errorf("workout %q: %w", keyNode.Value, err)
		}
		p.Workouts = append(p.Workouts, w)
	}
	return p, nil
}

// LoadWorkout builds a Workout from its name and decoded step sequence,
// separating metadata pseudo-steps from executable steps.
func LoadWorkout(name string, items []any) (*Workout, error) {
	w := &Workout{Name: name, Sport: SportRunning}
	var stepItems []any
	for _, item := range items {
		m, err := anyMap(item)
		if err != nil {
			return nil, err
		}
		if len(m) == 1 {
			if raw, ok := m["sport_type"]; ok {
				sport, err := ParseSport(fmt.Sprintf("%v", raw))
				if err != nil {
					return nil, err
				}
				w.Sport = sport
				continue
			}
			if raw, ok := m["date"]; ok {
				d, err := parseDateValue(raw)
				if err != nil {
					return nil, err
				}
				w.Date = &d
				continue
			}
			if raw, ok := m["description"]; ok {
				w.Description = fmt.Sprintf("%v", raw)
				continue
			}
		}
		stepItems = append(stepItems, item)
	}

	steps, err := ParseStepList(stepItems)
	if err != nil {
		return nil, err
	}
	w.Steps = steps
	return w, nil
}

func parseDateValue(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad date %q", v)
		}
		return d, nil
	default:
		return time.Time{}, fmt.Errorf("bad date %v", raw)
	}
}

// Save renders a plan back to YAML, workouts in order, config first.
func Save(p *Plan) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	if p.Config != nil {
		var cfgNode yaml.Node
		if err := cfgNode.Encode(p.Config.ToMap()); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		root.Content = append(root.Content, scalarNode("config"), &cfgNode)
	}

	for _, w := range p.Workouts {
		wNode, err := workoutNode(w)
		if err != nil {
			return nil, fmt.Errorf("encode workout %q: %w", w.Name, err)
		}
		root.Content = append(root.Content, scalarNode(w.Name), wNode)
	}

	return yaml.Marshal(root)
}

// SaveFile writes a plan YAML file.
func SaveFile(path string, p *Plan) error {
	data, err := Save(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plan %s: %w", path, err)
	}
	return nil
}

func workoutNode(w *Workout) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	seq.Content = append(seq.Content, pairNode("sport_type", w.Sport.Key()))
	if w.Description != "" {
		seq.Content = append(seq.Content, pairNode("description", w.Description))
	}
	if w.Date != nil {
		seq.Content = append(seq.Content, pairNode("date", w.Date.Format("2006-01-02")))
	}
	appendStepNodes(seq, w.Steps)
	return seq, nil
}

func appendStepNodes(seq *yaml.Node, steps []Step) {
	for _, s := range steps {
		switch st := s.(type) {
		case *Leaf:
			seq.Content = append(seq.Content, pairNode(string(st.Kind), st.Spec()))
		case *Repeat:
			m := &yaml.Node{Kind: yaml.MappingNode}
			m.Content = append(m.Content,
				scalarNode("repeat"),
				intNode(st.Iterations),
				scalarNode("steps"),
			)
			childSeq := &yaml.Node{Kind: yaml.SequenceNode}
			appendStepNodes(childSeq, st.Steps)
			m.Content = append(m.Content, childSeq)
			seq.Content = append(seq.Content, m)
		}
	}
}

func pairNode(key, val string) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, scalarNode(key), scalarNode(val))
	return m
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

func intNode(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", n)}
}
