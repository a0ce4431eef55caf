package platform

import (
	"encoding/json"
	"strings"
)

// expression is the platform's query filter node. Grouping nodes carry
// NestedExpression; simple nodes carry Property and Argument.
type expression struct {
	Operator         string       `json:"operator"`
	Property         string       `json:"property,omitempty"`
	Argument         []string     `json:"argument,omitempty"`
	NestedExpression []expression `json:"nestedExpression,omitempty"`
}

type queryFilter struct {
	QueryFilter struct {
		Expression expression `json:"expression"`
	} `json:"QueryFilter"`
}

func newQueryFilter(expr expression) queryFilter {
	var f queryFilter
	f.QueryFilter.Expression = expr
	return f
}

func equals(property, value string) expression {
	return expression{Operator: "EQUALS", Property: property, Argument: []string{value}}
}

func like(property, value string) expression {
	return expression{Operator: "LIKE", Property: property, Argument: []string{value}}
}

func and(exprs ...expression) expression {
	return group("and", exprs)
}

func or(exprs ...expression) expression {
	return group("or", exprs)
}

// group collapses single-element groups to the element itself.
func group(op string, exprs []expression) expression {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return expression{Operator: op, NestedExpression: exprs}
}

type queryResponse[T any] struct {
	NumberOfResults int    `json:"numberOfResults"`
	QueryToken      string `json:"queryToken,omitempty"`
	Result          []T    `json:"result"`
}

type componentMetadata struct {
	ComponentID string     `json:"componentId"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Version     flexString `json:"version"`
	FolderName  string     `json:"folderName"`
	FolderID    string     `json:"folderId"`
}

type componentReferenceGroup struct {
	References []struct {
		ComponentID       string `json:"componentId"`
		ParentComponentID string `json:"parentComponentId"`
	} `json:"references"`
}

type folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullPath string `json:"fullPath"`
}

type executionRequest struct {
	Type      string `json:"@type"`
	AtomID    string `json:"atomId"`
	ProcessID string `json:"processId"`
}

type executionResponse struct {
	RequestID string `json:"requestId"`
	RecordURL string `json:"recordUrl"`
}

type executionRecordResponse struct {
	ResponseStatusCode int `json:"responseStatusCode"`
	Result             []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"result"`
}

// flexString accepts both JSON strings and numbers; component versions are
// reported as numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
