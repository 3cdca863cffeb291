package project

import (
	"math"
	"strings"
)

// maxExactInt bounds numeric input to the range a JSON number carries exactly.
const maxExactInt = 1<<53 - 1

// LinkRequest links a counter to a parent counter in the same project.
type LinkRequest struct {
	TargetCounterID string
	TriggerValue    float64
}

// CreateCounterRequest defines counter creation inputs. Numeric fields are
// float64 because they arrive as JSON numbers and must be checked for
// integrality here.
type CreateCounterRequest struct {
	Name               string
	Min                float64
	Max                float64
	Step               float64
	Link               *LinkRequest
	IsManuallyDisabled bool
}

// CounterPatch is a partial counter update. Nil fields are left unchanged.
// Link replaces the current link; ClearLink removes it when Link is nil.
type CounterPatch struct {
	Name               *string
	Min                *float64
	Max                *float64
	Step               *float64
	Link               *LinkRequest
	ClearLink          bool
	IsManuallyDisabled *bool
}

// ProjectPatch is a partial project update.
type ProjectPatch struct {
	Name        *string
	Description *string
	IsActive    *bool
	IsExpanded  *bool
}

type counterFields struct {
	name    string
	min     int
	max     int
	step    int
	target  *string
	trigger *int
}

// validateCounter checks a counter definition in the documented order and
// returns the first failure. selfID is empty for new counters.
func validateCounter(p *Project, selfID, name string, lo, hi, step float64, link *LinkRequest) (counterFields, error) {
	var f counterFields

	f.name = strings.TrimSpace(name)
	if f.name == "" {
		return f, invalid("name", "counter name is required")
	}

	var err error
	if f.min, err = integer("min", lo); err != nil {
		return f, err
	}
	if f.max, err = integer("max", hi); err != nil {
		return f, err
	}
	if f.step, err = integer("step", step); err != nil {
		return f, err
	}
	if f.step < 1 {
		return f, invalid("step", "must be at least 1")
	}
	if f.min >= f.max {
		return f, invalid("min", "must be less than max (%d)", f.max)
	}

	if link != nil {
		if f.target, f.trigger, err = validateLink(p, selfID, *link); err != nil {
			return f, err
		}
	}
	return f, nil
}

func validateLink(p *Project, selfID string, link LinkRequest) (*string, *int, error) {
	target := strings.TrimSpace(link.TargetCounterID)
	if target == "" {
		return nil, nil, invalid("linkedToCounterId", "link target is required")
	}
	if target == selfID {
		return nil, nil, invalid("linkedToCounterId", "a counter cannot link to itself")
	}
	if _, ok := p.Counter(target); !ok {
		return nil, nil, invalid("linkedToCounterId", "counter %q does not exist in this project", target)
	}
	trigger, err := integer("triggerValue", link.TriggerValue)
	if err != nil {
		return nil, nil, err
	}
	if trigger < 1 {
		return nil, nil, invalid("triggerValue", "must be at least 1")
	}
	return &target, &trigger, nil
}

func integer(field string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, invalid(field, "must be an integer")
	}
	if v > maxExactInt || v < -maxExactInt {
		return 0, invalid(field, "out of range")
	}
	return int(v), nil
}

func validateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "project name is required")
	}
	return name, nil
}
