package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"testplanner/internal/api"
	"testplanner/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the test plan operations as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
}

// New creates the MCP server and registers every tool.
func New(version string) *Server {
	mcpServer := server.NewMCPServer(
		"testplanner",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{mcpServer: mcpServer}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// HTTPHandler serves the tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	createPlanTool := mcp.NewTool("create_test_plan",
		mcp.WithDescription("Create a test plan from component ids, names or folders. Discovery runs in the background; poll get_test_plan until the status is AWAITING_SELECTION."),
		mcp.WithString("name",
			mcp.Description("Optional display name of the plan"),
		),
		mcp.WithString("planType",
			mcp.Description("COMPONENT runs the tests mapped to the components, TEST runs the given test processes directly"),
			mcp.Enum(string(api.TestPlanTypeComponent), string(api.TestPlanTypeTest)),
		),
		mcp.WithArray("componentIds",
			mcp.Description("Component ids to include"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("componentNames",
			mcp.Description("Exact component names to include"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("folderNames",
			mcp.Description("Folders whose components are included"),
			mcp.WithStringItems(),
		),
		mcp.WithString("credentialProfile",
			mcp.Required(),
			mcp.Description("Name of the stored platform credential profile"),
		),
		mcp.WithBoolean("discoverDependencies",
			mcp.Description("Walk the dependency graph of COMPONENT plan inputs"),
			mcp.DefaultBool(false),
		),
	)
	s.mcpServer.AddTool(createPlanTool, handleCreateTestPlan)

	listPlansTool := mcp.NewTool("list_test_plans",
		mcp.WithDescription("List all test plans, newest first"),
	)
	s.mcpServer.AddTool(listPlansTool, handleListTestPlans)

	getPlanTool := mcp.NewTool("get_test_plan",
		mcp.WithDescription("Get a test plan with its components, available tests and results"),
		mcp.WithString("planId",
			mcp.Required(),
			mcp.Description("Id of the test plan"),
		),
	)
	s.mcpServer.AddTool(getPlanTool, handleGetTestPlan)

	executePlanTool := mcp.NewTool("execute_test_plan",
		mcp.WithDescription("Execute the tests of a discovered test plan. Execution runs in the background."),
		mcp.WithString("planId",
			mcp.Required(),
			mcp.Description("Id of the test plan"),
		),
		mcp.WithString("credentialProfile",
			mcp.Required(),
			mcp.Description("Name of the stored platform credential profile"),
		),
		mcp.WithArray("testsToRun",
			mcp.Description("Test component ids to run; all available tests when omitted"),
			mcp.WithStringItems(),
		),
	)
	s.mcpServer.AddTool(executePlanTool, handleExecuteTestPlan)

	deletePlanTool := mcp.NewTool("delete_test_plan",
		mcp.WithDescription("Delete a test plan and its results"),
		mcp.WithString("planId",
			mcp.Required(),
			mcp.Description("Id of the test plan"),
		),
	)
	s.mcpServer.AddTool(deletePlanTool, handleDeleteTestPlan)

	listMappingsTool := mcp.NewTool("list_mappings",
		mcp.WithDescription("List test mappings, optionally for one main component"),
		mcp.WithString("mainComponentId",
			mcp.Description("Only return mappings of this main component"),
		),
	)
	s.mcpServer.AddTool(listMappingsTool, handleListMappings)

	createMappingTool := mcp.NewTool("create_mapping",
		mcp.WithDescription("Register a test component against a main component"),
		mcp.WithString("mainComponentId",
			mcp.Required(),
			mcp.Description("Id of the component under test"),
		),
		mcp.WithString("testComponentId",
			mcp.Required(),
			mcp.Description("Id of the test process"),
		),
		mcp.WithString("mainComponentName",
			mcp.Description("Display name of the component under test"),
		),
		mcp.WithString("testComponentName",
			mcp.Description("Display name of the test process"),
		),
	)
	s.mcpServer.AddTool(createMappingTool, handleCreateMapping)

	resultsTool := mcp.NewTool("get_test_results",
		mcp.WithDescription("Query test execution results. At least one filter is needed."),
		mcp.WithString("testPlanId",
			mcp.Description("Only results of this plan"),
		),
		mcp.WithString("componentId",
			mcp.Description("Only results for this main component"),
		),
		mcp.WithString("testComponentId",
			mcp.Description("Only results of this test"),
		),
		mcp.WithString("status",
			mcp.Description("Only results with this status"),
			mcp.Enum(string(api.ExecutionSuccess), string(api.ExecutionFailure)),
		),
	)
	s.mcpServer.AddTool(resultsTool, handleGetTestResults)

	logging.Debug("MCPTools", "Registered %d tools", len(s.mcpServer.ListTools()))
}

// jsonResult renders v as indented JSON text.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func errorResult(action string, err error) *mcp.CallToolResult {
	logging.Debug("MCPTools", "%s failed: %v", action, err)
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err))
}

func handleCreateTestPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetTestPlanHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrTestPlanHandlerNotRegistered.Error()), nil
	}

	profile, err := request.RequireString("credentialProfile")
	if err != nil {
		return mcp.NewToolResultError("credentialProfile argument is required"), nil
	}

	plan, err := h.InitiateDiscovery(ctx, api.CreateTestPlanRequest{
		Name:     request.GetString("name", ""),
		PlanType: api.TestPlanType(request.GetString("planType", "")),
		Inputs: api.PlanInputs{
			ComponentIDs:   request.GetStringSlice("componentIds", nil),
			ComponentNames: request.GetStringSlice("componentNames", nil),
			FolderNames:    request.GetStringSlice("folderNames", nil),
		},
		CredentialProfile:    profile,
		DiscoverDependencies: request.GetBool("discoverDependencies", false),
	})
	if err != nil {
		return errorResult("Create test plan", err), nil
	}
	return jsonResult(plan)
}

func handleListTestPlans(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetTestPlanHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrTestPlanHandlerNotRegistered.Error()), nil
	}
	plans, err := h.ListTestPlans(ctx)
	if err != nil {
		return errorResult("List test plans", err), nil
	}
	if plans == nil {
		plans = []*api.TestPlan{}
	}
	return jsonResult(plans)
}

func handleGetTestPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetTestPlanHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrTestPlanHandlerNotRegistered.Error()), nil
	}
	planID, err := request.RequireString("planId")
	if err != nil {
		return mcp.NewToolResultError("planId argument is required"), nil
	}
	plan, err := h.GetTestPlan(ctx, planID)
	if err != nil {
		return errorResult("Get test plan", err), nil
	}
	return jsonResult(plan)
}

func handleExecuteTestPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetTestPlanHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrTestPlanHandlerNotRegistered.Error()), nil
	}
	planID, err := request.RequireString("planId")
	if err != nil {
		return mcp.NewToolResultError("planId argument is required"), nil
	}
	profile, err := request.RequireString("credentialProfile")
	if err != nil {
		return mcp.NewToolResultError("credentialProfile argument is required"), nil
	}

	err = h.ExecuteTestPlan(ctx, api.ExecuteTestPlanRequest{
		PlanID:            planID,
		TestsToRun:        request.GetStringSlice("testsToRun", nil),
		CredentialProfile: profile,
	})
	if err != nil {
		return errorResult("Execute test plan", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Execution of test plan %s started. Poll get_test_plan for the outcome.", planID)), nil
}

func handleDeleteTestPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetTestPlanHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrTestPlanHandlerNotRegistered.Error()), nil
	}
	planID, err := request.RequireString("planId")
	if err != nil {
		return mcp.NewToolResultError("planId argument is required"), nil
	}
	if err := h.DeleteTestPlan(ctx, planID); err != nil {
		return errorResult("Delete test plan", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Test plan %s deleted", planID)), nil
}

func handleListMappings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetMappingHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrMappingHandlerNotRegistered.Error()), nil
	}
	mappings, err := h.ListMappings(ctx, request.GetString("mainComponentId", ""))
	if err != nil {
		return errorResult("List mappings", err), nil
	}
	if mappings == nil {
		mappings = []*api.Mapping{}
	}
	return jsonResult(mappings)
}

func handleCreateMapping(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetMappingHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrMappingHandlerNotRegistered.Error()), nil
	}
	mainID, err := request.RequireString("mainComponentId")
	if err != nil {
		return mcp.NewToolResultError("mainComponentId argument is required"), nil
	}
	testID, err := request.RequireString("testComponentId")
	if err != nil {
		return mcp.NewToolResultError("testComponentId argument is required"), nil
	}

	m, err := h.CreateMapping(ctx, api.CreateMappingRequest{
		MainComponentID:   mainID,
		MainComponentName: request.GetString("mainComponentName", ""),
		TestComponentID:   testID,
		TestComponentName: request.GetString("testComponentName", ""),
	})
	if err != nil {
		return errorResult("Create mapping", err), nil
	}
	return jsonResult(m)
}

func handleGetTestResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := api.GetResultHandler()
	if h == nil {
		return mcp.NewToolResultError(api.ErrResultHandlerNotRegistered.Error()), nil
	}

	filter := api.ResultFilter{
		TestPlanID:      request.GetString("testPlanId", ""),
		ComponentID:     request.GetString("componentId", ""),
		TestComponentID: request.GetString("testComponentId", ""),
		Status:          api.ExecutionStatus(request.GetString("status", "")),
	}
	if filter.IsEmpty() {
		return mcp.NewToolResultError("at least one of testPlanId, componentId, testComponentId or status is required"), nil
	}

	results, err := h.GetResults(ctx, filter)
	if err != nil {
		return errorResult("Get test results", err), nil
	}
	if results == nil {
		results = []api.TestExecutionResult{}
	}
	return jsonResult(results)
}
