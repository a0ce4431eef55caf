package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"testplanner/internal/api"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const stringArray = `{"type": "array", "items": {"type": "string", "minLength": 1}}`

var (
	createTestPlanSchema = jsonschema.MustCompileString("mem://testplanner/create-test-plan.json", `{
		"type": "object",
		"required": ["credentialProfile"],
		"properties": {
			"name": {"type": "string"},
			"planType": {"enum": ["COMPONENT", "TEST"]},
			"componentIds": `+stringArray+`,
			"componentNames": `+stringArray+`,
			"folderNames": `+stringArray+`,
			"credentialProfile": {"type": "string", "minLength": 1},
			"discoverDependencies": {"type": "boolean"}
		}
	}`)

	executeTestPlanSchema = jsonschema.MustCompileString("mem://testplanner/execute-test-plan.json", `{
		"type": "object",
		"required": ["credentialProfile"],
		"properties": {
			"testsToRun": `+stringArray+`,
			"credentialProfile": {"type": "string", "minLength": 1}
		}
	}`)

	createMappingSchema = jsonschema.MustCompileString("mem://testplanner/create-mapping.json", `{
		"type": "object",
		"required": ["mainComponentId", "testComponentId"],
		"properties": {
			"mainComponentId": {"type": "string", "minLength": 1},
			"mainComponentName": {"type": "string"},
			"testComponentId": {"type": "string", "minLength": 1},
			"testComponentName": {"type": "string"},
			"isDeployed": {"type": "boolean"},
			"isPackaged": {"type": "boolean"}
		}
	}`)

	updateMappingSchema = jsonschema.MustCompileString("mem://testplanner/update-mapping.json", `{
		"type": "object",
		"minProperties": 1,
		"properties": {
			"testComponentId": {"type": "string", "minLength": 1},
			"testComponentName": {"type": "string"},
			"isDeployed": {"type": "boolean"},
			"isPackaged": {"type": "boolean"}
		},
		"additionalProperties": false
	}`)

	addCredentialsSchema = jsonschema.MustCompileString("mem://testplanner/add-credentials.json", `{
		"type": "object",
		"required": ["profileName", "accountId", "username", "passwordOrToken", "executionInstanceId"],
		"properties": {
			"profileName": {"type": "string", "minLength": 1},
			"accountId": {"type": "string", "minLength": 1},
			"username": {"type": "string", "minLength": 1},
			"passwordOrToken": {"type": "string", "minLength": 1},
			"executionInstanceId": {"type": "string", "minLength": 1}
		}
	}`)
)

// decodeBody validates the request body against schema and decodes it into out.
func decodeBody(r *http.Request, schema *jsonschema.Schema, out interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return api.NewValidationError("request body is required")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return api.NewValidationError("request body is not valid JSON: %v", err)
	}

	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return api.NewValidationError("request body does not match the expected shape: %v", err)
	}
	return nil
}

// schemaError turns the first failing leaf of a schema validation into a
// ValidationError.
func schemaError(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return api.NewValidationError("%v", err)
	}

	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	return &api.ValidationError{Field: strings.ReplaceAll(field, "/", "."), Message: leaf.Message}
}
