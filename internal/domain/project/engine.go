package project

import (
	"strings"
	"time"
)

// Operation names reported by InvalidOperationError.
const (
	OpIncrement = "increment"
	OpDecrement = "decrement"
)

// NewProject builds an active, expanded project with no counters.
func NewProject(id, name, description string, createdAt time.Time) (*Project, error) {
	name, err := validateProjectName(name)
	if err != nil {
		return nil, err
	}
	return &Project{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		Counters:    []Counter{},
		IsActive:    true,
		IsExpanded:  true,
		CreatedAt:   createdAt,
	}, nil
}

// Apply merges a project patch. The project is untouched when the patch is invalid.
func (p *Project) Apply(patch ProjectPatch) error {
	name := p.Name
	if patch.Name != nil {
		var err error
		if name, err = validateProjectName(*patch.Name); err != nil {
			return err
		}
	}
	p.Name = name
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.IsExpanded != nil {
		p.IsExpanded = *patch.IsExpanded
	}
	return nil
}

// AddCounter validates req and appends a new counter starting at its floor.
func (p *Project) AddCounter(id string, req CreateCounterRequest) (*Counter, error) {
	f, err := validateCounter(p, "", req.Name, req.Min, req.Max, req.Step, req.Link)
	if err != nil {
		return nil, err
	}
	p.Counters = append(p.Counters, Counter{
		ID:                 id,
		Name:               f.name,
		Value:              f.min,
		Min:                f.min,
		Max:                f.max,
		Step:               f.step,
		LinkedToCounterID:  f.target,
		TriggerValue:       f.trigger,
		IsManuallyDisabled: req.IsManuallyDisabled,
	})
	return &p.Counters[len(p.Counters)-1], nil
}

// UpdateCounter merges patch into the counter, re-validates the result and
// re-clamps the value into the (possibly new) range.
//
// A stored link the patch leaves alone is kept as-is, even if it dangles.
func (p *Project) UpdateCounter(id string, patch CounterPatch) (*Counter, error) {
	c, ok := p.Counter(id)
	if !ok {
		return nil, counterNotFound(id)
	}

	name := c.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	lo, hi, step := float64(c.Min), float64(c.Max), float64(c.Step)
	if patch.Min != nil {
		lo = *patch.Min
	}
	if patch.Max != nil {
		hi = *patch.Max
	}
	if patch.Step != nil {
		step = *patch.Step
	}

	f, err := validateCounter(p, id, name, lo, hi, step, patch.Link)
	if err != nil {
		return nil, err
	}

	c.Name = f.name
	c.Min, c.Max, c.Step = f.min, f.max, f.step
	switch {
	case patch.Link != nil:
		c.LinkedToCounterID, c.TriggerValue = f.target, f.trigger
	case patch.ClearLink:
		c.LinkedToCounterID, c.TriggerValue = nil, nil
	}
	if patch.IsManuallyDisabled != nil {
		c.IsManuallyDisabled = *patch.IsManuallyDisabled
	}
	c.Value = clamp(c.Value, c.Min, c.Max)
	return c, nil
}

// Increment advances the counter by its step and cascades one level to the
// counters linked to it. It returns the ids of the children that advanced.
func (p *Project) Increment(id string) ([]string, error) {
	c, ok := p.Counter(id)
	if !ok {
		return nil, counterNotFound(id)
	}
	if c.IsManuallyDisabled {
		return nil, &InvalidOperationError{Op: OpIncrement, CounterID: id, Reason: ReasonDisabled}
	}
	if c.AtMax() {
		return nil, &InvalidOperationError{Op: OpIncrement, CounterID: id, Reason: ReasonAtMax}
	}

	value := min(c.Value+c.Step, c.Max)
	c.Value = value

	triggered := []string{}
	for i := range p.Counters {
		child := &p.Counters[i]
		if child.ID == id || !child.linkedTo(id) {
			continue
		}
		trigger := child.trigger()
		if trigger == 0 || value <= 0 || value%trigger != 0 {
			continue
		}
		child.Value = clamp(child.Value+child.Step, child.Min, child.Max)
		triggered = append(triggered, child.ID)
	}
	return triggered, nil
}

// Decrement moves the counter down by its step. It never cascades.
func (p *Project) Decrement(id string) error {
	c, ok := p.Counter(id)
	if !ok {
		return counterNotFound(id)
	}
	if c.IsManuallyDisabled {
		return &InvalidOperationError{Op: OpDecrement, CounterID: id, Reason: ReasonDisabled}
	}
	if c.AtMin() {
		return &InvalidOperationError{Op: OpDecrement, CounterID: id, Reason: ReasonAtMin}
	}
	c.Value = max(c.Value-c.Step, c.Min)
	return nil
}

// Reset returns the counter and every counter linked directly to it to their floors.
func (p *Project) Reset(id string) error {
	c, ok := p.Counter(id)
	if !ok {
		return counterNotFound(id)
	}
	c.Value = c.Min
	for i := range p.Counters {
		if child := &p.Counters[i]; child.linkedTo(id) {
			child.Value = child.Min
		}
	}
	return nil
}

// RemoveCounter deletes the counter. Counters linked to it keep their now
// dangling reference.
func (p *Project) RemoveCounter(id string) error {
	i := p.counterIndex(id)
	if i < 0 {
		return counterNotFound(id)
	}
	p.Counters = append(p.Counters[:i:i], p.Counters[i+1:]...)
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
