package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/ganot/stitchcounter/internal/repository"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, svc ProjectService) *sdkmcp.ClientSession {
	t.Helper()
	return connectWithLogger(t, svc, nil)
}

func connectWithLogger(t *testing.T, svc ProjectService, logger *slog.Logger) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{Services: Services{Projects: svc}, Logger: logger})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func newSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	return connect(t, project.NewService(repository.NewMemoryStore(), nil))
}

func call(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	if out != nil {
		require.False(t, res.IsError, "tool %s failed: %s", name, text(t, res))
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), out))
	}
	return res
}

func text(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func createProject(t *testing.T, cs *sdkmcp.ClientSession, name string) *project.Project {
	t.Helper()
	var resp ProjectResponse
	call(t, cs, "create_project", map[string]any{"name": name}, &resp)
	require.NotNil(t, resp.Project)
	return resp.Project
}

func createCounter(t *testing.T, cs *sdkmcp.ClientSession, args map[string]any) *project.Counter {
	t.Helper()
	var resp CounterResponse
	call(t, cs, "create_counter", args, &resp)
	require.NotNil(t, resp.Counter)
	return resp.Counter
}

func TestListTools(t *testing.T) {
	cs := newSession(t)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"list_projects", "get_project", "create_project", "update_project", "delete_project",
		"create_counter", "update_counter", "delete_counter",
		"increment_counter", "decrement_counter", "reset_counter",
	}, names)
}

func TestCreateCounterDefaults(t *testing.T) {
	cs := newSession(t)
	p := createProject(t, cs, "Scarf")

	c := createCounter(t, cs, map[string]any{"project_id": p.ID, "name": "Rows"})
	require.Equal(t, 0, c.Value)
	require.Equal(t, 0, c.Min)
	require.Equal(t, 999999, c.Max)
	require.Equal(t, 1, c.Step)
	require.False(t, c.IsLinked())
}

func TestIncrementCascadesThroughTool(t *testing.T) {
	cs := newSession(t)
	p := createProject(t, cs, "Sweater")
	rows := createCounter(t, cs, map[string]any{"project_id": p.ID, "name": "Rows"})
	repeats := createCounter(t, cs, map[string]any{
		"project_id": p.ID,
		"name":       "Repeats",
		"link":       map[string]any{"target_counter_id": rows.ID, "trigger_value": 4},
	})

	var resp CounterChangeResponse
	for range 3 {
		call(t, cs, "increment_counter", map[string]any{"project_id": p.ID, "counter_id": rows.ID}, &resp)
		require.Empty(t, resp.TriggeredCounterIDs)
	}
	call(t, cs, "increment_counter", map[string]any{"project_id": p.ID, "counter_id": rows.ID}, &resp)
	require.Equal(t, []string{repeats.ID}, resp.TriggeredCounterIDs)

	child, ok := resp.Project.Counter(repeats.ID)
	require.True(t, ok)
	require.Equal(t, 1, child.Value)
}

func TestIncrementRejectedIsNotToolError(t *testing.T) {
	cs := newSession(t)
	p := createProject(t, cs, "Hat")
	c := createCounter(t, cs, map[string]any{"project_id": p.ID, "name": "Rounds", "max": 1})

	var resp CounterChangeResponse
	call(t, cs, "increment_counter", map[string]any{"project_id": p.ID, "counter_id": c.ID}, &resp)
	require.Empty(t, resp.Rejected)

	call(t, cs, "increment_counter", map[string]any{"project_id": p.ID, "counter_id": c.ID}, &resp)
	require.Equal(t, project.ReasonAtMax, resp.Rejected)
	require.NotNil(t, resp.TriggeredCounterIDs)
	require.Empty(t, resp.TriggeredCounterIDs)
	got, _ := resp.Project.Counter(c.ID)
	require.Equal(t, 1, got.Value)

	call(t, cs, "decrement_counter", map[string]any{"project_id": p.ID, "counter_id": c.ID}, &resp)
	call(t, cs, "decrement_counter", map[string]any{"project_id": p.ID, "counter_id": c.ID}, &resp)
	require.Equal(t, project.ReasonAtMin, resp.Rejected)
}

func TestUpdateCounterClampsThroughTool(t *testing.T) {
	cs := newSession(t)
	p := createProject(t, cs, "Blanket")
	c := createCounter(t, cs, map[string]any{"project_id": p.ID, "name": "Rows", "step": 500000})

	var change CounterChangeResponse
	call(t, cs, "increment_counter", map[string]any{"project_id": p.ID, "counter_id": c.ID}, &change)

	var resp CounterResponse
	call(t, cs, "update_counter", map[string]any{"project_id": p.ID, "counter_id": c.ID, "max": 1000}, &resp)
	require.Equal(t, 1000, resp.Counter.Value)
	require.Equal(t, 1000, resp.Counter.Max)
}

func TestToolErrors(t *testing.T) {
	cs := newSession(t)
	p := createProject(t, cs, "Socks")

	res := call(t, cs, "get_project", map[string]any{"project_id": "missing"}, nil)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "PROJECT_NOT_FOUND")

	res = call(t, cs, "increment_counter", map[string]any{"project_id": p.ID, "counter_id": "missing"}, nil)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "COUNTER_NOT_FOUND")

	res = call(t, cs, "create_counter", map[string]any{"project_id": p.ID, "name": "Bad", "min": 5, "max": 5}, nil)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "VALIDATION_ERROR")

	res = call(t, cs, "create_project", map[string]any{"name": "   "}, nil)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "VALIDATION_ERROR")
}

func TestListProjectsActiveOnly(t *testing.T) {
	cs := newSession(t)
	done := createProject(t, cs, "Finished")
	createProject(t, cs, "Ongoing")

	var updated ProjectResponse
	call(t, cs, "update_project", map[string]any{"project_id": done.ID, "is_active": false}, &updated)
	require.False(t, updated.Project.IsActive)

	var all ProjectListResponse
	call(t, cs, "list_projects", map[string]any{}, &all)
	require.Len(t, all.Projects, 2)

	var active ProjectListResponse
	call(t, cs, "list_projects", map[string]any{"active_only": true}, &active)
	require.Len(t, active.Projects, 1)
	require.Equal(t, "Ongoing", active.Projects[0].Name)
}

func TestDeleteTools(t *testing.T) {
	cs := newSession(t)
	p := createProject(t, cs, "Mittens")
	c := createCounter(t, cs, map[string]any{"project_id": p.ID, "name": "Rows"})

	var resp ProjectResponse
	call(t, cs, "delete_counter", map[string]any{"project_id": p.ID, "counter_id": c.ID}, &resp)
	require.Empty(t, resp.Project.Counters)

	var deleted DeleteResponse
	call(t, cs, "delete_project", map[string]any{"project_id": p.ID}, &deleted)
	require.Equal(t, p.ID, deleted.Deleted)

	res := call(t, cs, "delete_project", map[string]any{"project_id": p.ID}, nil)
	require.True(t, res.IsError)
}

func TestReadDocResource(t *testing.T) {
	cs := newSession(t)

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "stitchcounter://docs/counters"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "Grandchildren never do")
}

type failingService struct {
	ProjectService
	err error
}

func (f failingService) List(context.Context) ([]project.Project, error) {
	return nil, f.err
}

func TestStorageErrorSurfaces(t *testing.T) {
	cs := connect(t, failingService{err: &project.StorageError{Op: "load", Err: errors.New("disk gone")}})

	res := call(t, cs, "list_projects", map[string]any{}, nil)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "STORAGE_ERROR")
}

// rejectingService rejects every increment and fails any later read, so a
// rejected result must come from the increment call itself.
type rejectingService struct {
	ProjectService
	snapshot *project.Project
}

func (r rejectingService) IncrementCounter(_ context.Context, _, counterID string) (*project.IncrementResult, error) {
	return &project.IncrementResult{Project: r.snapshot, TriggeredCounterIDs: []string{}},
		&project.InvalidOperationError{Op: project.OpIncrement, CounterID: counterID, Reason: project.ReasonDisabled}
}

func (r rejectingService) Get(context.Context, string) (*project.Project, error) {
	return nil, errors.New("unexpected second read")
}

func TestRejectedIncrementUsesServiceSnapshot(t *testing.T) {
	snapshot := &project.Project{
		ID:       "p1",
		Name:     "Scarf",
		Counters: []project.Counter{{ID: "c1", Name: "Rows", Value: 3, Min: 0, Max: 10, Step: 1, IsManuallyDisabled: true}},
	}
	cs := connect(t, rejectingService{snapshot: snapshot})

	var resp CounterChangeResponse
	call(t, cs, "increment_counter", map[string]any{"project_id": "p1", "counter_id": "c1"}, &resp)
	require.Equal(t, project.ReasonDisabled, resp.Rejected)
	require.Equal(t, snapshot, resp.Project)
}

func TestTrafficLoggingNamesToolAndProject(t *testing.T) {
	buf := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cs := connectWithLogger(t, project.NewService(repository.NewMemoryStore(), nil), logger)

	res := call(t, cs, "get_project", map[string]any{"project_id": "missing-project"}, nil)
	require.True(t, res.IsError)

	logs := buf.String()
	require.Contains(t, logs, "tool=get_project")
	require.Contains(t, logs, "project_id=missing-project")
	require.Contains(t, logs, "stage=response")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
