// ABOUTME: Workout DSL parser: spec strings, mapping step lists, indented text.
// ABOUTME: Produces the Step tree consumed by the compiler.
package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/trainer/internal/units"
)

// ParseSpec parses a single-line step specification into a Leaf of the given
// kind. The grammar is: duration? target? description?, with "--" starting
// the free-text description. Target placement is order-insensitive.
func ParseSpec(kind string, spec string) (*Leaf, error) {
	if !IsLeafKind(kind) {
		return nil, &UnknownKindError{Kind: kind}
	}
	leaf := &Leaf{
		Kind: StepKind(kind),
		End:  EndCondition{Type: EndLapButton},
	}

	body := spec
	if i := strings.Index(spec, "--"); i >= 0 {
		leaf.Description = strings.TrimSpace(spec[i+2:])
		body = spec[:i]
	}

	tokens := strings.Fields(body)
	haveDuration := false
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if strings.HasPrefix(tok, "@") {
			class, refHead, err := splitTargetMarker(tok)
			if err != nil {
				return nil, &ParseError{Spec: spec, Message: err.Error()}
			}
			refParts := []string{}
			if refHead != "" {
				refParts = append(refParts, refHead)
			}
			// Consume the remaining tokens as the zone reference, still
			// letting a trailing duration claim its slot.
			for j := i + 1; j < len(tokens); j++ {
				if !haveDuration && isDurationToken(tokens[j]) {
					if err := applyDuration(leaf, tokens[j]); err != nil {
						return nil, &ParseError{Spec: spec, Message: err.Error()}
					}
					haveDuration = true
					continue
				}
				refParts = append(refParts, tokens[j])
			}
			if len(refParts) == 0 {
				return nil, &ParseError{Spec: spec, Message: "target marker without zone reference"}
			}
			leaf.Target = TargetSpec{Class: class, Ref: strings.Join(refParts, " ")}
			break
		}
		if !haveDuration && isDurationToken(tok) {
			if err := applyDuration(leaf, tok); err != nil {
				return nil, &ParseError{Spec: spec, Message: err.Error()}
			}
			haveDuration = true
			continue
		}
		return nil, &ParseError{Spec: spec, Message: fmt.Sprintf("unexpected token %q", tok)}
	}

	return leaf, nil
}

func splitTargetMarker(tok string) (TargetClass, string, error) {
	switch {
	case tok == "@hr":
		return TargetHR, "", nil
	case tok == "@pwr":
		return TargetPower, "", nil
	case tok == "@spd":
		return TargetSpeed, "", nil
	case strings.HasPrefix(tok, "@hr:"):
		return TargetHR, tok[4:], nil
	case tok == "@":
		return TargetAuto, "", nil
	default:
		return TargetAuto, tok[1:], nil
	}
}

func isDurationToken(tok string) bool {
	if tok == "lap-button" {
		return true
	}
	if units.IsDistance(tok) {
		return true
	}
	_, err := units.ParseDuration(tok)
	return err == nil
}

func applyDuration(leaf *Leaf, tok string) error {
	if tok == "lap-button" {
		leaf.End = EndCondition{Type: EndLapButton}
		return nil
	}
	if units.IsDistance(tok) {
		meters, km, err := units.ParseDistance(tok)
		if err != nil {
			return err
		}
		leaf.End = EndCondition{Type: EndDistance, Value: meters, Kilometers: km}
		return nil
	}
	d, err := units.ParseDuration(tok)
	if err != nil {
		return err
	}
	leaf.End = EndCondition{Type: EndTime, Value: d.Seconds()}
	return nil
}

// ParseStepList parses the nested-mapping step form: each element is either a
// single-key {kind: spec} mapping or a {repeat: N, steps: [...]} group.
// Metadata entries (sport_type, date) are skipped; LoadWorkout handles them.
func ParseStepList(items []any) ([]Step, error) {
	var out []Step
	for _, item := range items {
		m, err := anyMap(item)
		if err != nil {
			return nil, err
		}
		if isMetadataEntry(m) {
			continue
		}
		step, err := parseStepMapping(m)
		if err != nil {
			return nil, err
		}
		out = append(out, step)
	}
	return out, nil
}

func parseStepMapping(m map[string]any) (Step, error) {
	if rep, ok := m["repeat"]; ok {
		n, err := asInt(rep)
		if err != nil || n < 1 {
			return nil, &ParseError{Spec: fmt.Sprintf("repeat: %v", rep), Message: "iterations must be a positive integer"}
		}
		rawSteps, ok := m["steps"].([]any)
		if !ok || len(rawSteps) == 0 {
			return nil, &EmptyRepeatError{}
		}
		children, err := ParseStepList(rawSteps)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, &EmptyRepeatError{}
		}
		return &Repeat{Iterations: n, Steps: children}, nil
	}

	if len(m) != 1 {
		return nil, &ParseError{Spec: fmt.Sprintf("%v", m), Message: "step mapping must have a single kind key"}
	}
	for kind, val := range m {
		spec := ""
		if val != nil {
			spec = fmt.Sprintf("%v", val)
		}
		return ParseSpec(kind, spec)
	}
	return nil, &ParseError{Spec: fmt.Sprintf("%v", m), Message: "empty step mapping"}
}

func isMetadataEntry(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		if k == "sport_type" || k == "date" || k == "description" {
			return true
		}
	}
	return false
}

// ParseText parses the workbook textual step form, where repeat children are
// introduced by two-space indentation:
//
//	warmup: 10min @Z1_HR
//	repeat: 4
//	  interval: 1km @Z4
//	  recovery: 2min @Z1_HR
//	cooldown: 5min @Z1_HR
func ParseText(block string) ([]Step, error) {
	var lines []textLine
	for _, raw := range strings.Split(block, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		indent := 0
		for strings.HasPrefix(raw[indent:], "  ") {
			indent += 2
		}
		lines = append(lines, textLine{depth: indent / 2, text: strings.TrimSpace(raw)})
	}
	steps, rest, err := parseTextLevel(lines, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &ParseError{Spec: rest[0].text, Message: "unexpected indentation"}
	}
	return steps, nil
}

type textLine struct {
	depth int
	text  string
}

func parseTextLevel(lines []textLine, depth int) ([]Step, []textLine, error) {
	var out []Step
	for len(lines) > 0 {
		line := lines[0]
		if line.depth < depth {
			break
		}
		if line.depth > depth {
			return nil, nil, &ParseError{Spec: line.text, Message: "unexpected indentation"}
		}
		lines = lines[1:]

		key, val, err := splitTextLine(line.text)
		if err != nil {
			return nil, nil, err
		}
		if key == "repeat" {
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil || n < 1 {
				return nil, nil, &ParseError{Spec: line.text, Message: "iterations must be a positive integer"}
			}
			children, rest, err := parseTextLevel(lines, depth+1)
			if err != nil {
				return nil, nil, err
			}
			if len(children) == 0 {
				return nil, nil, &EmptyRepeatError{}
			}
			out = append(out, &Repeat{Iterations: n, Steps: children})
			lines = rest
			continue
		}
		leaf, err := ParseSpec(key, val)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, leaf)
	}
	return out, lines, nil
}

func splitTextLine(s string) (key, val string, err error) {
	i := strings.Index(s, ":")
	if i < 0 {
		return "", "", &ParseError{Spec: s, Message: "missing kind separator"}
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), nil
}

// FormatText renders a step tree back into the indented textual form.
func FormatText(steps []Step) string {
	var b strings.Builder
	formatTextLevel(&b, steps, 0)
	return strings.TrimRight(b.String(), "\n")
}

func formatTextLevel(b *strings.Builder, steps []Step, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, s := range steps {
		switch st := s.(type) {
		case *Leaf:
			fmt.Fprintf(b, "%s%s: %s\n", pad, st.Kind, st.Spec())
		case *Repeat:
			fmt.Fprintf(b, "%srepeat: %d\n", pad, st.Iterations)
			formatTextLevel(b, st.Steps, depth+1)
		}
	}
}

func anyMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := map[string]any{}
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, nil
	default:
		return nil, &ParseError{Spec: fmt.Sprintf("%v", v), Message: "step must be a mapping"}
	}
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
