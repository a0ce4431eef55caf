package platform

import (
	"encoding/json"
	"strings"

	"testplanner/internal/api"
)

type testResultPayload struct {
	TestCases []struct {
		TestCaseID      string `json:"testCaseId"`
		TestDescription string `json:"testDescription"`
		Status          string `json:"status"`
		Details         string `json:"details"`
	} `json:"testCases"`
}

// parseTestCases extracts the structured test report a test process embeds in
// its error message. The message is tried as-is first, then the span from the
// first '{' to the last '}'. It returns nil when no report is present.
func parseTestCases(message string) []api.TestCaseResult {
	candidates := []string{message}
	if start, end := strings.Index(message, "{"), strings.LastIndex(message, "}"); start >= 0 && end > start {
		if inner := message[start : end+1]; inner != message {
			candidates = append(candidates, inner)
		}
	}

	for _, candidate := range candidates {
		var payload struct {
			TestCases *json.RawMessage `json:"testCases"`
		}
		if json.Unmarshal([]byte(candidate), &payload) != nil || payload.TestCases == nil {
			continue
		}
		var parsed testResultPayload
		if json.Unmarshal([]byte(candidate), &parsed) != nil || parsed.TestCases == nil {
			continue
		}

		cases := make([]api.TestCaseResult, 0, len(parsed.TestCases))
		for _, tc := range parsed.TestCases {
			status := api.TestCaseFailed
			if strings.EqualFold(tc.Status, string(api.TestCasePassed)) {
				status = api.TestCasePassed
			}
			cases = append(cases, api.TestCaseResult{
				TestCaseID:      tc.TestCaseID,
				TestDescription: tc.TestDescription,
				Status:          status,
				Details:         tc.Details,
			})
		}
		return cases
	}
	return nil
}
