package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `stitchcounter tracks craft projects (knitting, crochet) as Projects → Counters.

Core concepts:
- Project: a named work-in-progress; Active or Completed; holds counters in display order.
- Counter: an integer tally with min/max bounds and a step. Value always stays within [min, max].
- Link: a counter may follow a parent counter in the same project with a trigger value N.
  Every time the parent is incremented to a positive multiple of N, the child advances by its own step.
  Links are one level deep: a grandchild never moves because its grandparent was incremented.
- Manually disabled: the counter ignores direct increment/decrement but still follows its parent.

Workflow:
1) list_projects to orient, get_project for one project.
2) create_project, then create_counter (defaults: min 0, max 999999, step 1).
3) increment_counter / decrement_counter / reset_counter. A rejected increment (at max, disabled)
   is not an error: the result carries "rejected" and the unchanged project.
4) update_counter to rename, re-range (value is clamped), link/unlink, or disable.

Docs:
- stitchcounter://docs/counters
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "stitchcounter://docs/counters",
		Name:        "docs_counters",
		Title:       "Counters and linking",
		Description: "Exact rules for increment, decrement, reset, range edits and linked counters.",
		Content: `# Counters and linking

## Increment

- Rejected (no change) when the counter is manually disabled or already at max.
- Otherwise value = min(value + step, max).
- Then every counter linked to this one with trigger N advances by its own step (clamped to its max)
  when the new value is > 0 and divisible by N. Its id is listed in triggeredCounterIds.
- Disabled children still advance. Grandchildren never do.

## Decrement

- Rejected when disabled or already at min. Otherwise value = max(value - step, min).
- Never affects linked counters.

## Reset

- Sets the counter to its min and every counter linked directly to it to their own min.

## Editing

- Name, min, max, step, link and disabled flag can be changed; validation matches creation.
- After any edit the value is clamped into the new [min, max].
- A counter cannot link to itself; the target must exist in the same project.

## Deleting

- Deleting a counter leaves counters that linked to it in place. Their link dangles and never fires.
- Deleting a project deletes all of its counters.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
