package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/ganot/stitchcounter/internal/domain/project"
)

// storedCounter mirrors project.Counter with pointer flags so fields missing
// from older records can be told apart from explicit false. Numbers are read
// as float64: records written by the web form may hold fractions.
type storedCounter struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Value              float64  `json:"value"`
	Min                float64  `json:"min"`
	Max                float64  `json:"max"`
	Step               float64  `json:"step"`
	LinkedToCounterID  *string  `json:"linkedToCounterId"`
	TriggerValue       *float64 `json:"triggerValue"`
	IsManuallyDisabled *bool    `json:"isManuallyDisabled"`
}

// maxStoredInt bounds decoded numbers to what a JSON number carries exactly.
const maxStoredInt = 1<<53 - 1

type storedProject struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Counters    []storedCounter `json:"counters"`
	IsActive    *bool           `json:"isActive"`
	IsExpanded  *bool           `json:"isExpanded"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// EncodeProjects serializes the whole collection.
func EncodeProjects(projects []project.Project) ([]byte, error) {
	if projects == nil {
		projects = []project.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return nil, fmt.Errorf("marshal projects: %w", err)
	}
	return data, nil
}

// DecodeProjects deserializes a collection, defaulting optional fields that
// older records may lack. Empty input decodes to an empty collection.
func DecodeProjects(data []byte) ([]project.Project, error) {
	if len(data) == 0 {
		return []project.Project{}, nil
	}

	var stored []storedProject
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}

	projects := make([]project.Project, 0, len(stored))
	for _, sp := range stored {
		proj := project.Project{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Counters:    make([]project.Counter, 0, len(sp.Counters)),
			IsActive:    boolOr(sp.IsActive, true),
			IsExpanded:  boolOr(sp.IsExpanded, true),
			CreatedAt:   sp.CreatedAt,
		}
		for _, sc := range sp.Counters {
			proj.Counters = append(proj.Counters, sc.counter())
		}
		projects = append(projects, proj)
	}
	return projects, nil
}

// counter converts a stored record, truncating fractions so the result holds
// the engine's invariants: min < max, step >= 1, value within [min, max].
// A fractional trigger is dropped and the link never fires.
func (sc storedCounter) counter() project.Counter {
	lo, hi := whole(sc.Min), whole(sc.Max)
	if hi <= lo {
		hi = lo + 1
	}
	c := project.Counter{
		ID:                 sc.ID,
		Name:               sc.Name,
		Value:              max(lo, min(whole(sc.Value), hi)),
		Min:                lo,
		Max:                hi,
		Step:               max(1, whole(sc.Step)),
		LinkedToCounterID:  sc.LinkedToCounterID,
		IsManuallyDisabled: boolOr(sc.IsManuallyDisabled, false),
	}
	if t := sc.TriggerValue; t != nil && *t == math.Trunc(*t) {
		trigger := whole(*t)
		c.TriggerValue = &trigger
	}
	return c
}

func whole(f float64) int {
	return int(max(-maxStoredInt, min(math.Trunc(f), maxStoredInt)))
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
