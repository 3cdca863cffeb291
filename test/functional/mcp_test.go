package functional_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/ganot/stitchcounter/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "Tool %s returned no text content", name)
	require.False(t, result.IsError, "Tool %s returned error: %s", name, text.Text)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func TestHTTPHealth(t *testing.T) {
	ts := testserver.New(t)

	resp, err := http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestHTTPFunctional_LinkedCounters(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t)

	var created struct {
		Project project.Project `json:"project"`
	}
	callTool(t, session, "create_project", map[string]any{"name": "Cabled Sweater"}, &created)
	projectID := created.Project.ID

	var rows, repeats struct {
		Counter project.Counter `json:"counter"`
	}
	callTool(t, session, "create_counter", map[string]any{
		"project_id": projectID, "name": "Rows", "max": 100,
	}, &rows)
	callTool(t, session, "create_counter", map[string]any{
		"project_id": projectID, "name": "Repeats", "max": 10,
		"link": map[string]any{"target_counter_id": rows.Counter.ID, "trigger_value": 3},
	}, &repeats)

	var change struct {
		TriggeredCounterIDs []string `json:"triggeredCounterIds"`
	}
	for i := 1; i <= 6; i++ {
		callTool(t, session, "increment_counter", map[string]any{
			"project_id": projectID, "counter_id": rows.Counter.ID,
		}, &change)
		if i%3 == 0 {
			require.Equal(t, []string{repeats.Counter.ID}, change.TriggeredCounterIDs)
		} else {
			require.Empty(t, change.TriggeredCounterIDs)
		}
	}

	// State is persisted through the SQLite store, not held by the server.
	p, err := ts.Projects.Get(context.Background(), projectID)
	require.NoError(t, err)
	child, ok := p.Counter(repeats.Counter.ID)
	require.True(t, ok)
	require.Equal(t, 2, child.Value)

	var reset struct {
		Project project.Project `json:"project"`
	}
	callTool(t, session, "reset_counter", map[string]any{
		"project_id": projectID, "counter_id": rows.Counter.ID,
	}, &reset)
	for _, c := range reset.Project.Counters {
		require.Equal(t, 0, c.Value, c.Name)
	}
}
