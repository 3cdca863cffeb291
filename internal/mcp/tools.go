package mcp

import (
	"context"
	"errors"

	"github.com/ganot/stitchcounter/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	projects := svc.Projects

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with their counters, in creation order",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		all, err := projects.List(ctx)
		if err != nil {
			return nil, nil, toolError(err)
		}
		out := make([]project.Project, 0, len(all))
		for _, p := range all {
			if in.ActiveOnly && !p.IsActive {
				continue
			}
			out = append(out, p)
		}
		return nil, ProjectListResponse{Projects: out}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project with all of its counters",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.Get(ctx, in.ProjectID)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, ProjectResponse{Project: p}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new active project with no counters",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.CreateProject(ctx, project.CreateRequest{Name: in.Name, Description: in.Description})
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, ProjectResponse{Project: p}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Rename a project, change its description, mark it completed or active, or collapse it",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.UpdateProject(ctx, in.ProjectID, project.ProjectPatch{
			Name:        in.Name,
			Description: in.Description,
			IsActive:    in.IsActive,
			IsExpanded:  in.IsExpanded,
		})
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, ProjectResponse{Project: p}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project and all of its counters",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteProjectParams) (*sdkmcp.CallToolResult, any, error) {
		if err := projects.DeleteProject(ctx, in.ProjectID); err != nil {
			return nil, nil, toolError(err)
		}
		return nil, DeleteResponse{Deleted: in.ProjectID}, nil
	})

	// Counters
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_counter",
		Description: "Add a counter to a project. Starts at min. Optionally link it to a parent counter.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateCounterParams) (*sdkmcp.CallToolResult, any, error) {
		c, err := projects.CreateCounter(ctx, in.ProjectID, in.request())
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, CounterResponse{Counter: c}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_counter",
		Description: "Edit a counter. The value is clamped into the new range.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateCounterParams) (*sdkmcp.CallToolResult, any, error) {
		c, err := projects.UpdateCounter(ctx, in.ProjectID, in.CounterID, in.patch())
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, CounterResponse{Counter: c}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_counter",
		Description: "Remove a counter. Counters linked to it keep a dangling link that never fires.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CounterParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.DeleteCounter(ctx, in.ProjectID, in.CounterID)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, ProjectResponse{Project: p}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "increment_counter",
		Description: "Advance a counter by its step and cascade to directly linked counters",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CounterParams) (*sdkmcp.CallToolResult, any, error) {
		res, err := projects.IncrementCounter(ctx, in.ProjectID, in.CounterID)
		if err != nil {
			var unchanged *project.Project
			if res != nil {
				unchanged = res.Project
			}
			return rejected(unchanged, err)
		}
		return nil, CounterChangeResponse{Project: res.Project, TriggeredCounterIDs: res.TriggeredCounterIDs}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "decrement_counter",
		Description: "Move a counter down by its step. Linked counters are not affected.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CounterParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.DecrementCounter(ctx, in.ProjectID, in.CounterID)
		if err != nil {
			return rejected(p, err)
		}
		return nil, CounterChangeResponse{Project: p, TriggeredCounterIDs: []string{}}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reset_counter",
		Description: "Set a counter and every counter linked directly to it back to their minimums",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CounterParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.ResetCounter(ctx, in.ProjectID, in.CounterID)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, CounterChangeResponse{Project: p, TriggeredCounterIDs: []string{}}, nil
	})
}

// rejected turns an InvalidOperation into a normal result carrying the
// unchanged project the service returned with it. Any other error is
// returned as a tool error.
func rejected(unchanged *project.Project, err error) (*sdkmcp.CallToolResult, any, error) {
	var opErr *project.InvalidOperationError
	if !errors.As(err, &opErr) || unchanged == nil {
		return nil, nil, toolError(err)
	}
	return nil, CounterChangeResponse{
		Project:             unchanged,
		TriggeredCounterIDs: []string{},
		Rejected:            opErr.Reason,
	}, nil
}
