package platform

import (
	"context"
	"fmt"

	"testplanner/internal/api"
	"testplanner/pkg/logging"
)

// SearchComponents finds current, non-deleted components matching any of the
// criteria's ids, names or folders, optionally restricted to Types.
// Unknown folder names simply contribute no matches.
func (c *Client) SearchComponents(ctx context.Context, criteria api.ComponentSearchCriteria) ([]api.ComponentInfo, error) {
	if criteria.IsEmpty() {
		return nil, nil
	}

	folderIDs, err := c.resolveFolderIDs(ctx, criteria.FolderNames)
	if err != nil {
		return nil, err
	}

	filter, ok := buildSearchFilter(criteria, folderIDs)
	if !ok {
		return nil, nil
	}

	metas, err := queryAll[componentMetadata](ctx, c, "/ComponentMetadata", filter)
	if err != nil {
		return nil, fmt.Errorf("component search failed: %w", err)
	}

	seen := make(map[string]bool, len(metas))
	components := make([]api.ComponentInfo, 0, len(metas))
	for _, m := range metas {
		if m.ComponentID == "" || seen[m.ComponentID] {
			continue
		}
		seen[m.ComponentID] = true
		components = append(components, m.toComponentInfo())
	}
	logging.Debug("Platform", "Component search matched %d component(s)", len(components))
	return components, nil
}

// buildSearchFilter returns false when nothing could match (for example
// only unknown folders were given).
func buildSearchFilter(criteria api.ComponentSearchCriteria, folderIDs []string) (queryFilter, bool) {
	var selectors []expression
	for _, id := range criteria.IDs {
		selectors = append(selectors, equals("componentId", id))
	}
	for _, name := range criteria.Names {
		if criteria.ExactNameMatch {
			selectors = append(selectors, equals("name", name))
		} else {
			selectors = append(selectors, like("name", "%"+name+"%"))
		}
	}
	for _, id := range folderIDs {
		selectors = append(selectors, equals("folderId", id))
	}
	if len(selectors) == 0 {
		return queryFilter{}, false
	}

	clauses := []expression{
		equals("deleted", "false"),
		equals("currentVersion", "true"),
	}
	if len(criteria.Types) > 0 {
		var types []expression
		for _, t := range criteria.Types {
			types = append(types, equals("type", t))
		}
		clauses = append(clauses, or(types...))
	}
	clauses = append(clauses, or(selectors...))

	return newQueryFilter(and(clauses...)), true
}

func (c *Client) resolveFolderIDs(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var byName []expression
	for _, n := range names {
		byName = append(byName, equals("name", n))
	}
	folders, err := queryAll[folder](ctx, c, "/Folder", newQueryFilter(or(byName...)))
	if err != nil {
		return nil, fmt.Errorf("folder lookup failed: %w", err)
	}

	ids := make([]string, 0, len(folders))
	for _, f := range folders {
		ids = append(ids, f.ID)
	}
	if len(ids) < len(names) {
		logging.Warn("Platform", "Resolved %d of %d folder name(s)", len(ids), len(names))
	}
	return ids, nil
}
