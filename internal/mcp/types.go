package mcp

import "github.com/ganot/stitchcounter/internal/domain/project"

// Defaults applied when create_counter omits a field.
const (
	defaultMin  = 0
	defaultMax  = 999999
	defaultStep = 1
)

type ListProjectsParams struct {
	ActiveOnly bool `json:"active_only,omitempty" jsonschema:"Only return projects that are not completed"`
}

type GetProjectParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type CreateProjectParams struct {
	Name        string `json:"name" jsonschema:"Project display name"`
	Description string `json:"description,omitempty" jsonschema:"Optional project description"`
}

type UpdateProjectParams struct {
	ProjectID   string  `json:"project_id" jsonschema:"Project ID"`
	Name        *string `json:"name,omitempty" jsonschema:"New project name"`
	Description *string `json:"description,omitempty" jsonschema:"New project description"`
	IsActive    *bool   `json:"is_active,omitempty" jsonschema:"false marks the project completed"`
	IsExpanded  *bool   `json:"is_expanded,omitempty" jsonschema:"Whether the project card is expanded"`
}

type DeleteProjectParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type LinkParams struct {
	TargetCounterID string  `json:"target_counter_id" jsonschema:"Parent counter ID in the same project"`
	TriggerValue    float64 `json:"trigger_value" jsonschema:"Advance this counter every N parent increments (integer >= 1)"`
}

func (l *LinkParams) request() *project.LinkRequest {
	if l == nil {
		return nil
	}
	return &project.LinkRequest{TargetCounterID: l.TargetCounterID, TriggerValue: l.TriggerValue}
}

type CreateCounterParams struct {
	ProjectID          string      `json:"project_id" jsonschema:"Project ID"`
	Name               string      `json:"name" jsonschema:"Counter name"`
	Min                *float64    `json:"min,omitempty" jsonschema:"Lower bound (integer, default 0)"`
	Max                *float64    `json:"max,omitempty" jsonschema:"Upper bound (integer, default 999999)"`
	Step               *float64    `json:"step,omitempty" jsonschema:"Increment size (integer >= 1, default 1)"`
	Link               *LinkParams `json:"link,omitempty" jsonschema:"Optional link to a parent counter"`
	IsManuallyDisabled bool        `json:"is_manually_disabled,omitempty" jsonschema:"Block direct increment/decrement"`
}

func (p CreateCounterParams) request() project.CreateCounterRequest {
	return project.CreateCounterRequest{
		Name:               p.Name,
		Min:                floatOr(p.Min, defaultMin),
		Max:                floatOr(p.Max, defaultMax),
		Step:               floatOr(p.Step, defaultStep),
		Link:               p.Link.request(),
		IsManuallyDisabled: p.IsManuallyDisabled,
	}
}

type UpdateCounterParams struct {
	ProjectID          string      `json:"project_id" jsonschema:"Project ID"`
	CounterID          string      `json:"counter_id" jsonschema:"Counter ID"`
	Name               *string     `json:"name,omitempty" jsonschema:"New name"`
	Min                *float64    `json:"min,omitempty" jsonschema:"New lower bound"`
	Max                *float64    `json:"max,omitempty" jsonschema:"New upper bound"`
	Step               *float64    `json:"step,omitempty" jsonschema:"New step"`
	Link               *LinkParams `json:"link,omitempty" jsonschema:"Replace the link"`
	ClearLink          bool        `json:"clear_link,omitempty" jsonschema:"Remove the link"`
	IsManuallyDisabled *bool       `json:"is_manually_disabled,omitempty" jsonschema:"Block direct increment/decrement"`
}

func (p UpdateCounterParams) patch() project.CounterPatch {
	return project.CounterPatch{
		Name:               p.Name,
		Min:                p.Min,
		Max:                p.Max,
		Step:               p.Step,
		Link:               p.Link.request(),
		ClearLink:          p.ClearLink,
		IsManuallyDisabled: p.IsManuallyDisabled,
	}
}

type CounterParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
	CounterID string `json:"counter_id" jsonschema:"Counter ID"`
}

type ProjectListResponse struct {
	Projects []project.Project `json:"projects"`
}

type ProjectResponse struct {
	Project *project.Project `json:"project"`
}

type CounterResponse struct {
	Counter *project.Counter `json:"counter"`
}

type DeleteResponse struct {
	Deleted string `json:"deleted"`
}

// CounterChangeResponse is returned by increment, decrement and reset.
// Rejected is set when the operation was a no-op for the counter's state.
type CounterChangeResponse struct {
	Project             *project.Project `json:"project"`
	TriggeredCounterIDs []string         `json:"triggeredCounterIds"`
	Rejected            string           `json:"rejected,omitempty"`
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
