package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"testplanner/internal/api"
	"testplanner/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlans struct {
	created  api.CreateTestPlanRequest
	executed api.ExecuteTestPlanRequest
	err      error
}

func (f *fakePlans) InitiateDiscovery(ctx context.Context, req api.CreateTestPlanRequest) (*api.TestPlan, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &api.TestPlan{ID: "plan-1", Name: req.Name, PlanType: req.PlanType, Status: api.StatusDiscovering}, nil
}

func (f *fakePlans) ExecuteTestPlan(ctx context.Context, req api.ExecuteTestPlanRequest) error {
	f.executed = req
	return f.err
}

func (f *fakePlans) GetTestPlan(ctx context.Context, planID string) (*api.TestPlanWithDetails, error) {
	if planID != "plan-1" {
		return nil, api.NewNotFoundError("test plan", planID)
	}
	return &api.TestPlanWithDetails{TestPlan: api.TestPlan{ID: planID, Status: api.StatusAwaitingSelection}}, nil
}

func (f *fakePlans) ListTestPlans(ctx context.Context) ([]*api.TestPlan, error) {
	return nil, nil
}

func (f *fakePlans) DeleteTestPlan(ctx context.Context, planID string) error {
	return f.err
}

type fakeResults struct {
	filter api.ResultFilter
}

func (f *fakeResults) GetResults(ctx context.Context, filter api.ResultFilter) ([]api.TestExecutionResult, error) {
	f.filter = filter
	return []api.TestExecutionResult{{ID: "r1", TestComponentID: "T1", Status: api.ExecutionSuccess}}, nil
}

type fakeMappings struct {
	updated api.UpdateMappingRequest
}

func (f *fakeMappings) CreateMapping(ctx context.Context, req api.CreateMappingRequest) (*api.Mapping, error) {
	return &api.Mapping{ID: "m1", MainComponentID: req.MainComponentID, TestComponentID: req.TestComponentID}, nil
}

func (f *fakeMappings) GetMapping(ctx context.Context, id string) (*api.Mapping, error) {
	return nil, api.NewNotFoundError("mapping", id)
}

func (f *fakeMappings) ListMappings(ctx context.Context, mainComponentID string) ([]*api.Mapping, error) {
	return []*api.Mapping{{ID: "m1", MainComponentID: mainComponentID}}, nil
}

func (f *fakeMappings) UpdateMapping(ctx context.Context, id string, req api.UpdateMappingRequest) (*api.Mapping, error) {
	f.updated = req
	return &api.Mapping{ID: id}, nil
}

func (f *fakeMappings) DeleteMapping(ctx context.Context, id string) error {
	return nil
}

type fakeCredentials struct {
	added api.Credentials
}

func (f *fakeCredentials) AddCredentials(ctx context.Context, name string, creds api.Credentials) (*api.CredentialProfile, error) {
	f.added = creds
	return &api.CredentialProfile{ProfileName: name, AccountID: creds.AccountID}, nil
}

func (f *fakeCredentials) ListCredentials(ctx context.Context) ([]api.CredentialProfile, error) {
	return nil, nil
}

func (f *fakeCredentials) DeleteCredentials(ctx context.Context, name string) error {
	return api.NewNotFoundError("credential profile", name)
}

func registerFakes(t *testing.T) (*fakePlans, *fakeMappings, *fakeCredentials, *fakeResults) {
	t.Helper()
	plans, mappings, creds, results := &fakePlans{}, &fakeMappings{}, &fakeCredentials{}, &fakeResults{}
	api.RegisterTestPlanHandler(plans)
	api.RegisterMappingHandler(mappings)
	api.RegisterCredentialHandler(creds)
	api.RegisterResultHandler(results)
	t.Cleanup(func() {
		api.RegisterTestPlanHandler(nil)
		api.RegisterMappingHandler(nil)
		api.RegisterCredentialHandler(nil)
		api.RegisterResultHandler(nil)
	})
	return plans, mappings, creds, results
}

func do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	s := New(config.ServerConfig{Host: "localhost", Port: 0}, nil)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.CreateMux().ServeHTTP(rec, req)

	var env Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealthz(t *testing.T) {
	rec, env := do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, env.Metadata.Code)
}

func TestCreateTestPlan(t *testing.T) {
	plans, _, _, _ := registerFakes(t)

	rec, env := do(t, http.MethodPost, "/api/v1/test-plans", `{
		"name": "nightly",
		"planType": "COMPONENT",
		"componentIds": ["a", "b"],
		"folderNames": ["Tests"],
		"credentialProfile": "dev",
		"discoverDependencies": true
	}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, "Accepted", env.Metadata.Message)

	data := env.Data.(map[string]interface{})
	assert.Equal(t, "plan-1", data["id"])
	assert.Equal(t, "DISCOVERING", data["status"])

	assert.Equal(t, "nightly", plans.created.Name)
	assert.Equal(t, []string{"a", "b"}, plans.created.Inputs.ComponentIDs)
	assert.Equal(t, []string{"Tests"}, plans.created.Inputs.FolderNames)
	assert.Equal(t, "dev", plans.created.CredentialProfile)
	assert.True(t, plans.created.DiscoverDependencies)
}

func TestCreateTestPlan_SchemaViolations(t *testing.T) {
	registerFakes(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty body", body: "", want: "request body is required"},
		{name: "not json", body: "{", want: "not valid JSON"},
		{name: "missing profile", body: `{"componentIds": ["a"]}`, want: "credentialProfile"},
		{name: "bad plan type", body: `{"planType": "SUITE", "componentIds": ["a"], "credentialProfile": "dev"}`, want: "planType"},
		{name: "ids not strings", body: `{"componentIds": [1], "credentialProfile": "dev"}`, want: "componentIds.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, http.MethodPost, "/api/v1/test-plans", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 400, env.Metadata.Code)
			assert.Contains(t, env.Metadata.Message, tt.want)
		})
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: api.UnresolvedError("names", []string{"x"}), want: http.StatusBadRequest},
		{name: "not found", err: api.NewNotFoundError("test plan", "p"), want: http.StatusNotFound},
		{name: "invalid state", err: &api.InvalidStateError{PlanID: "p", From: api.StatusExecuting, To: api.StatusExecuting}, want: http.StatusConflict},
		{name: "auth", err: &api.AuthenticationError{StatusCode: 401}, want: http.StatusUnauthorized},
		{name: "platform", err: &api.PlatformError{StatusCode: 503, Attempts: 5}, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, _, _, _ := registerFakes(t)
			plans.err = tt.err

			rec, env := do(t, http.MethodPost, "/api/v1/test-plans/p/execute", `{"credentialProfile": "dev"}`)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.want, env.Metadata.Code)
			assert.Equal(t, tt.err.Error(), env.Metadata.Message)
		})
	}
}

func TestExecuteTestPlan(t *testing.T) {
	plans, _, _, _ := registerFakes(t)

	rec, _ := do(t, http.MethodPost, "/api/v1/test-plans/plan-1/execute", `{"testsToRun": ["T1"], "credentialProfile": "dev"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "plan-1", plans.executed.PlanID)
	assert.Equal(t, []string{"T1"}, plans.executed.TestsToRun)
}

func TestGetTestPlan(t *testing.T) {
	registerFakes(t)

	rec, _ := do(t, http.MethodGet, "/api/v1/test-plans/plan-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, http.MethodGet, "/api/v1/test-plans/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "test plan nope not found", env.Metadata.Message)
}

func TestListTestPlans_EmptyArray(t *testing.T) {
	registerFakes(t)

	rec, env := do(t, http.MethodGet, "/api/v1/test-plans", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, env.Data)
}

func TestDeleteTestPlan(t *testing.T) {
	registerFakes(t)

	rec, _ := do(t, http.MethodDelete, "/api/v1/test-plans/plan-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMappings(t *testing.T) {
	_, mappings, _, _ := registerFakes(t)

	rec, env := do(t, http.MethodPost, "/api/v1/mappings", `{"mainComponentId": "A", "testComponentId": "T1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "m1", env.Data.(map[string]interface{})["id"])

	rec, env = do(t, http.MethodGet, "/api/v1/mappings?mainComponentId=A", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data, 1)

	rec, _ = do(t, http.MethodGet, "/api/v1/mappings/zzz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, http.MethodPut, "/api/v1/mappings/m1", `{"testComponentName": "Renamed", "isDeployed": true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, mappings.updated.TestComponentName)
	assert.Equal(t, "Renamed", *mappings.updated.TestComponentName)
	require.NotNil(t, mappings.updated.IsDeployed)
	assert.True(t, *mappings.updated.IsDeployed)

	rec, _ = do(t, http.MethodPut, "/api/v1/mappings/m1", `{"mainComponentId": "B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, http.MethodDelete, "/api/v1/mappings/m1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCredentials(t *testing.T) {
	_, _, creds, _ := registerFakes(t)

	rec, env := do(t, http.MethodPost, "/api/v1/credentials", `{
		"profileName": "dev",
		"accountId": "acct",
		"username": "user",
		"passwordOrToken": "secret",
		"executionInstanceId": "atom"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "acct", creds.added.AccountID)
	assert.Equal(t, "secret", creds.added.PasswordOrToken)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Equal(t, "dev", env.Data.(map[string]interface{})["profileName"])

	rec, _ = do(t, http.MethodPost, "/api/v1/credentials", `{"profileName": "dev"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, http.MethodDelete, "/api/v1/credentials/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueryResults(t *testing.T) {
	_, _, _, results := registerFakes(t)

	rec, env := do(t, http.MethodGet, "/api/v1/test-execution-results?testPlanId=p1&discoveredComponentId=c1&status=FAILURE", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data, 1)
	assert.Equal(t, api.ResultFilter{TestPlanID: "p1", ComponentID: "c1", Status: api.ExecutionFailure}, results.filter)
}

func TestHandlersNotRegistered(t *testing.T) {
	api.RegisterTestPlanHandler(nil)

	rec, env := do(t, http.MethodGet, "/api/v1/test-plans", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, api.ErrTestPlanHandlerNotRegistered.Error(), env.Metadata.Message)
}

func TestMCPMounted(t *testing.T) {
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	s := New(config.ServerConfig{Host: "localhost", Port: 3000}, mcp)
	assert.Equal(t, "localhost:3000", s.Addr())

	rec := httptest.NewRecorder()
	s.CreateMux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
