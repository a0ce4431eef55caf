package server

import (
	"net/http"

	"testplanner/internal/api"
)

// createTestPlanBody is the POST /api/v1/test-plans payload.
type createTestPlanBody struct {
	Name                 string           `json:"name"`
	PlanType             api.TestPlanType `json:"planType"`
	ComponentIDs         []string         `json:"componentIds"`
	ComponentNames       []string         `json:"componentNames"`
	FolderNames          []string         `json:"folderNames"`
	CredentialProfile    string           `json:"credentialProfile"`
	DiscoverDependencies bool             `json:"discoverDependencies"`
}

type executeTestPlanBody struct {
	TestsToRun        []string `json:"testsToRun"`
	CredentialProfile string   `json:"credentialProfile"`
}

type addCredentialsBody struct {
	ProfileName string `json:"profileName"`
	api.Credentials
}

func handleListTestPlans(w http.ResponseWriter, r *http.Request) {
	h := api.GetTestPlanHandler()
	if h == nil {
		writeError(w, api.ErrTestPlanHandlerNotRegistered)
		return
	}
	plans, err := h.ListTestPlans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if plans == nil {
		plans = []*api.TestPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func handleCreateTestPlan(w http.ResponseWriter, r *http.Request) {
	h := api.GetTestPlanHandler()
	if h == nil {
		writeError(w, api.ErrTestPlanHandlerNotRegistered)
		return
	}

	var body createTestPlanBody
	if err := decodeBody(r, createTestPlanSchema, &body); err != nil {
		writeError(w, err)
		return
	}

	plan, err := h.InitiateDiscovery(r.Context(), api.CreateTestPlanRequest{
		Name:     body.Name,
		PlanType: body.PlanType,
		Inputs: api.PlanInputs{
			ComponentIDs:   body.ComponentIDs,
			ComponentNames: body.ComponentNames,
			FolderNames:    body.FolderNames,
		},
		CredentialProfile:    body.CredentialProfile,
		DiscoverDependencies: body.DiscoverDependencies,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, plan)
}

func handleGetTestPlan(w http.ResponseWriter, r *http.Request) {
	h := api.GetTestPlanHandler()
	if h == nil {
		writeError(w, api.ErrTestPlanHandlerNotRegistered)
		return
	}
	plan, err := h.GetTestPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func handleDeleteTestPlan(w http.ResponseWriter, r *http.Request) {
	h := api.GetTestPlanHandler()
	if h == nil {
		writeError(w, api.ErrTestPlanHandlerNotRegistered)
		return
	}
	if err := h.DeleteTestPlan(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleExecuteTestPlan(w http.ResponseWriter, r *http.Request) {
	h := api.GetTestPlanHandler()
	if h == nil {
		writeError(w, api.ErrTestPlanHandlerNotRegistered)
		return
	}

	var body executeTestPlanBody
	if err := decodeBody(r, executeTestPlanSchema, &body); err != nil {
		writeError(w, err)
		return
	}

	planID := r.PathValue("id")
	if err := h.ExecuteTestPlan(r.Context(), api.ExecuteTestPlanRequest{
		PlanID:            planID,
		TestsToRun:        body.TestsToRun,
		CredentialProfile: body.CredentialProfile,
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"testPlanId": planID,
		"message":    "Test execution started.",
	})
}

func handleListMappings(w http.ResponseWriter, r *http.Request) {
	h := api.GetMappingHandler()
	if h == nil {
		writeError(w, api.ErrMappingHandlerNotRegistered)
		return
	}
	mappings, err := h.ListMappings(r.Context(), r.URL.Query().Get("mainComponentId"))
	if err != nil {
		writeError(w, err)
		return
	}
	if mappings == nil {
		mappings = []*api.Mapping{}
	}
	writeJSON(w, http.StatusOK, mappings)
}

func handleCreateMapping(w http.ResponseWriter, r *http.Request) {
	h := api.GetMappingHandler()
	if h == nil {
		writeError(w, api.ErrMappingHandlerNotRegistered)
		return
	}

	var req api.CreateMappingRequest
	if err := decodeBody(r, createMappingSchema, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.CreateMapping(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func handleGetMapping(w http.ResponseWriter, r *http.Request) {
	h := api.GetMappingHandler()
	if h == nil {
		writeError(w, api.ErrMappingHandlerNotRegistered)
		return
	}
	m, err := h.GetMapping(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func handleUpdateMapping(w http.ResponseWriter, r *http.Request) {
	h := api.GetMappingHandler()
	if h == nil {
		writeError(w, api.ErrMappingHandlerNotRegistered)
		return
	}

	var req api.UpdateMappingRequest
	if err := decodeBody(r, updateMappingSchema, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.UpdateMapping(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	h := api.GetMappingHandler()
	if h == nil {
		writeError(w, api.ErrMappingHandlerNotRegistered)
		return
	}
	if err := h.DeleteMapping(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleListCredentials(w http.ResponseWriter, r *http.Request) {
	h := api.GetCredentialHandler()
	if h == nil {
		writeError(w, api.ErrCredentialHandlerNotRegistered)
		return
	}
	profiles, err := h.ListCredentials(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if profiles == nil {
		profiles = []api.CredentialProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func handleAddCredentials(w http.ResponseWriter, r *http.Request) {
	h := api.GetCredentialHandler()
	if h == nil {
		writeError(w, api.ErrCredentialHandlerNotRegistered)
		return
	}

	var body addCredentialsBody
	if err := decodeBody(r, addCredentialsSchema, &body); err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.AddCredentials(r.Context(), body.ProfileName, body.Credentials)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func handleDeleteCredentials(w http.ResponseWriter, r *http.Request) {
	h := api.GetCredentialHandler()
	if h == nil {
		writeError(w, api.ErrCredentialHandlerNotRegistered)
		return
	}
	if err := h.DeleteCredentials(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleQueryResults(w http.ResponseWriter, r *http.Request) {
	h := api.GetResultHandler()
	if h == nil {
		writeError(w, api.ErrResultHandlerNotRegistered)
		return
	}

	q := r.URL.Query()
	filter := api.ResultFilter{
		TestPlanID:      q.Get("testPlanId"),
		ComponentID:     q.Get("componentId"),
		TestComponentID: q.Get("testComponentId"),
		Status:          api.ExecutionStatus(q.Get("status")),
	}
	if filter.ComponentID == "" {
		filter.ComponentID = q.Get("discoveredComponentId")
	}

	results, err := h.GetResults(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []api.TestExecutionResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
