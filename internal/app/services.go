package app

import (
	"context"
	"fmt"

	"testplanner/internal/api"
	"testplanner/internal/credentials"
	"testplanner/internal/mapping"
	"testplanner/internal/mcptools"
	"testplanner/internal/platform"
	"testplanner/internal/store"
	"testplanner/internal/testplan"
	"testplanner/pkg/logging"
)

// Services holds all initialized services used by the application.
//
// Every service is also registered with the api handler registry, which is
// how the HTTP server, the MCP tools and the CLI reach them.
type Services struct {
	// Store is the file-backed persistence for plans, results, mappings and
	// credential profiles.
	Store *store.Store

	// TestPlans drives discovery and execution. Its task group owns all
	// background work and must be shut down before exit.
	TestPlans *testplan.Service

	Mappings    *mapping.Service
	Credentials *credentials.Service

	// MCP exposes the registered handlers as MCP tools.
	MCP *mcptools.Server
}

// InitializeServices creates and registers all required services for the application.
//
// Initialization Sequence:
//  1. Open the data store under the configured data directory
//  2. Create the platform client factory backed by the credential store
//  3. Create the test plan, mapping and credential services
//  4. Register them with the api layer
//  5. Build the MCP tool server on top of the registered handlers
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.Settings == nil {
		panic("Logic error: services initialized without configuration")
	}
	settings := cfg.Settings

	if settings.Storage.DataDir == "" {
		return nil, fmt.Errorf("storage.dataDir is not set")
	}
	st := store.New(settings.Storage.DataDir)
	logging.Debug("Services", "Using data directory %s", settings.Storage.DataDir)

	factory := platform.NewFactory(st.Credentials, settings.Platform)

	tasks := testplan.NewTaskGroup(context.Background())
	plans := testplan.NewService(testplan.Repositories{
		Plans:       st.Plans,
		EntryPoints: st.EntryPoints,
		Components:  st.Components,
		Mappings:    st.Mappings,
		Results:     st.Results,
	}, factory, tasks, settings.Platform.ConcurrencyLimit)

	mappings := mapping.NewService(st.Mappings)
	creds := credentials.NewService(st.Credentials)

	api.RegisterTestPlanHandler(plans)
	api.RegisterResultHandler(plans)
	api.RegisterMappingHandler(mappings)
	api.RegisterCredentialHandler(creds)

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Services{
		Store:       st,
		TestPlans:   plans,
		Mappings:    mappings,
		Credentials: creds,
		MCP:         mcptools.New(version),
	}, nil
}
