package mcp

import (
	"context"
	"log/slog"

	"github.com/ganot/stitchcounter/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project and counter operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	UpdateProject(ctx context.Context, id string, patch project.ProjectPatch) (*project.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CreateCounter(ctx context.Context, projectID string, req project.CreateCounterRequest) (*project.Counter, error)
	UpdateCounter(ctx context.Context, projectID, counterID string, patch project.CounterPatch) (*project.Counter, error)
	DeleteCounter(ctx context.Context, projectID, counterID string) (*project.Project, error)
	IncrementCounter(ctx context.Context, projectID, counterID string) (*project.IncrementResult, error)
	DecrementCounter(ctx context.Context, projectID, counterID string) (*project.Project, error)
	ResetCounter(ctx context.Context, projectID, counterID string) (*project.Project, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "stitchcounter",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
