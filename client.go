/*
Package dsi resolves the stacks a set of buildpacks are jointly compatible with, synthesizes a
builder configuration for them and drives the builder creation tool, streaming its output.

The registry, resolution and process layers live in internal packages; Client ties them together
and is what the HTTP server and the CLI are built on.
*/
package dsi

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/builder"
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/config"
	"github.com/dsi-platform/dsi/internal/process"
	"github.com/dsi-platform/dsi/internal/registry"
	"github.com/dsi-platform/dsi/logging"
)

//go:generate mockgen -package testmocks -destination testmocks/mock_buildpack_registry.go github.com/dsi-platform/dsi BuildpackRegistry

// BuildpackRegistry looks up the published versions and stacks of a buildpack.
type BuildpackRegistry interface {
	// FetchInfo retrieves the record of a normalized buildpack id, without registry prefix or version.
	FetchInfo(ctx context.Context, buildpackID string) (registry.Record, error)
}

//go:generate mockgen -package testmocks -destination testmocks/mock_process_orchestrator.go github.com/dsi-platform/dsi ProcessOrchestrator

// ProcessOrchestrator persists builder configs and runs the builder creation tool.
type ProcessOrchestrator interface {
	// Persist writes cfg to the location reserved for appID and returns its path.
	Persist(cfg builder.Config, appID int64) (string, error)
	// Launch starts the tool creating the builder image for appID on stackID from configPath.
	Launch(ctx context.Context, appID int64, stackID, configPath string) (*process.Process, error)
	// RegisterAndStream tracks a launched process and returns its combined output.
	RegisterAndStream(p *process.Process) (io.ReadCloser, error)
}

// Client is an orchestration object, it contains all parameters needed to
// resolve buildpacks and create builders.
// All settings on this object should be changed through Option functions.
type Client struct {
	logger       logging.Logger
	registry     BuildpackRegistry
	orchestrator ProcessOrchestrator
	resolver     *buildpack.Resolver

	registryURL      string
	registryCacheTTL time.Duration
	configDir        string
	builderTool      string
	killOnDisconnect bool
	lifecycleVersion string

	ownedOrchestrator *process.Orchestrator
}

// Option is a type of function that mutate settings on the client.
// Values in these functions are set through currying.
type Option func(c *Client)

// WithLogger supply your own logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRegistry supply your own BuildpackRegistry.
func WithRegistry(r BuildpackRegistry) Option {
	return func(c *Client) {
		c.registry = r
	}
}

// WithRegistryURL sets the base URL of the buildpack registry API.
// It is ignored when a registry is supplied with WithRegistry.
func WithRegistryURL(url string) Option {
	return func(c *Client) {
		c.registryURL = url
	}
}

// WithRegistryCacheTTL keeps registry records for ttl.
// It is ignored when a registry is supplied with WithRegistry.
func WithRegistryCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.registryCacheTTL = ttl
	}
}

// WithOrchestrator supply your own ProcessOrchestrator.
func WithOrchestrator(o ProcessOrchestrator) Option {
	return func(c *Client) {
		c.orchestrator = o
	}
}

// WithConfigDir sets where builder configs are persisted.
// It is ignored when an orchestrator is supplied with WithOrchestrator.
func WithConfigDir(dir string) Option {
	return func(c *Client) {
		c.configDir = dir
	}
}

// WithBuilderTool sets the builder creation tool.
// It is ignored when an orchestrator is supplied with WithOrchestrator.
func WithBuilderTool(tool string) Option {
	return func(c *Client) {
		c.builderTool = tool
	}
}

// WithKillOnDisconnect kills a builder process when the reader of its output goes away.
// It is ignored when an orchestrator is supplied with WithOrchestrator.
func WithKillOnDisconnect(kill bool) Option {
	return func(c *Client) {
		c.killOnDisconnect = kill
	}
}

// WithLifecycleVersion pins the lifecycle version of synthesized builders.
func WithLifecycleVersion(version string) Option {
	return func(c *Client) {
		c.lifecycleVersion = version
	}
}

// NewClient allocates and returns a Client configured with the specified options.
func NewClient(opts ...Option) (*Client, error) {
	client := &Client{
		builderTool: process.DefaultTool,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger == nil {
		client.logger = logging.NewLogWithWriters(io.Discard, io.Discard)
	}

	if client.registry == nil {
		client.registry = registry.NewClient(
			client.registryURL,
			registry.WithCacheTTL(client.registryCacheTTL),
			registry.WithLogger(client.logger),
		)
	}

	if client.orchestrator == nil {
		if client.configDir == "" {
			home, err := config.Home()
			if err != nil {
				return nil, errors.Wrap(err, "getting dsi home")
			}
			client.configDir = config.Config{}.WithDefaults(home).ConfigDir
		}

		client.ownedOrchestrator = process.NewOrchestrator(
			client.configDir,
			process.WithTool(client.builderTool),
			process.WithLogger(client.logger),
			process.WithKillOnDisconnect(client.killOnDisconnect),
		)
		client.orchestrator = client.ownedOrchestrator
	}

	client.resolver = buildpack.NewResolver(client.registry, client.logger)

	return client, nil
}

// Processes lists the builder processes started by the client that are still running.
// It is empty when the orchestrator does not keep a process table.
func (c *Client) Processes() []process.Snapshot {
	if lister, ok := c.orchestrator.(interface{ Processes() []process.Snapshot }); ok {
		return lister.Processes()
	}
	return []process.Snapshot{}
}

// Close releases the orchestrator created by NewClient.
func (c *Client) Close() error {
	if c.ownedOrchestrator == nil {
		return nil
	}
	return c.ownedOrchestrator.Close()
}
