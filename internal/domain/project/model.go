package project

import "time"

// Counter is a bounded, steppable tally inside a project.
type Counter struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Value              int     `json:"value"`
	Min                int     `json:"min"`
	Max                int     `json:"max"`
	Step               int     `json:"step"`
	LinkedToCounterID  *string `json:"linkedToCounterId,omitempty"`
	TriggerValue       *int    `json:"triggerValue,omitempty"`
	IsManuallyDisabled bool    `json:"isManuallyDisabled"`
}

// AtMin reports whether the counter sits on its floor.
func (c Counter) AtMin() bool {
	return c.Value <= c.Min
}

// AtMax reports whether the counter sits on its ceiling.
func (c Counter) AtMax() bool {
	return c.Value >= c.Max
}

// CanIncrement reports whether a direct increment would be accepted.
func (c Counter) CanIncrement() bool {
	return !c.IsManuallyDisabled && !c.AtMax()
}

// CanDecrement reports whether a direct decrement would be accepted.
func (c Counter) CanDecrement() bool {
	return !c.IsManuallyDisabled && !c.AtMin()
}

// IsLinked reports whether the counter carries a link, dangling or not.
func (c Counter) IsLinked() bool {
	return c.LinkedToCounterID != nil && *c.LinkedToCounterID != ""
}

func (c Counter) linkedTo(parentID string) bool {
	return c.IsLinked() && *c.LinkedToCounterID == parentID
}

// trigger returns the configured trigger value, or 0 when none is usable.
func (c Counter) trigger() int {
	if c.TriggerValue == nil || *c.TriggerValue < 1 {
		return 0
	}
	return *c.TriggerValue
}

// Project represents one craft work-in-progress and its counters.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Counters    []Counter `json:"counters"`
	IsActive    bool      `json:"isActive"`
	IsExpanded  bool      `json:"isExpanded"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Counter returns the counter with the given id, or false when absent.
func (p *Project) Counter(id string) (*Counter, bool) {
	i := p.counterIndex(id)
	if i < 0 {
		return nil, false
	}
	return &p.Counters[i], true
}

// Children returns the counters linked directly to parentID, in display order.
func (p *Project) Children(parentID string) []Counter {
	var children []Counter
	for _, c := range p.Counters {
		if c.ID != parentID && c.linkedTo(parentID) {
			children = append(children, c)
		}
	}
	return children
}

// LinkTarget resolves a counter's link. Dangling and empty links report false.
func (p *Project) LinkTarget(c Counter) (*Counter, bool) {
	if !c.IsLinked() {
		return nil, false
	}
	return p.Counter(*c.LinkedToCounterID)
}

func (p *Project) counterIndex(id string) int {
	for i := range p.Counters {
		if p.Counters[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy, so callers can hand out results without sharing
// the loaded collection.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Counters = make([]Counter, len(p.Counters))
	for i, c := range p.Counters {
		cp.Counters[i] = c.clone()
	}
	return &cp
}

func (c Counter) clone() Counter {
	if c.LinkedToCounterID != nil {
		id := *c.LinkedToCounterID
		c.LinkedToCounterID = &id
	}
	if c.TriggerValue != nil {
		v := *c.TriggerValue
		c.TriggerValue = &v
	}
	return c
}

// IncrementResult is the outcome of an accepted increment.
type IncrementResult struct {
	Project             *Project `json:"project"`
	TriggeredCounterIDs []string `json:"triggeredCounterIds"`
}
