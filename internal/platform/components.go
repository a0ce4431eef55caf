package platform

import (
	"context"
	"fmt"
	"net/url"

	"testplanner/internal/api"
	"testplanner/pkg/logging"
)

// GetComponentInfo fetches a component's metadata. It returns (nil, nil) when
// the platform does not know the id.
func (c *Client) GetComponentInfo(ctx context.Context, componentID string) (*api.ComponentInfo, error) {
	var meta componentMetadata
	err := c.do(ctx, "GET", "/ComponentMetadata/"+url.PathEscape(componentID), nil, &meta)
	if err != nil {
		if isMissing(err) {
			logging.Debug("Platform", "Component %s not found", componentID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch metadata for component %s: %w", componentID, err)
	}

	info := meta.toComponentInfo()
	if info.ID == "" {
		info.ID = componentID
	}
	return &info, nil
}

// GetComponentInfoAndDependencies fetches metadata plus the ids of the
// components directly referenced by the current version.
func (c *Client) GetComponentInfoAndDependencies(ctx context.Context, componentID string) (*api.ComponentInfo, error) {
	info, err := c.GetComponentInfo(ctx, componentID)
	if err != nil || info == nil {
		return info, err
	}

	filter := newQueryFilter(and(
		equals("parentComponentId", componentID),
		equals("parentVersion", info.Version),
	))
	groups, err := queryAll[componentReferenceGroup](ctx, c, "/ComponentReference", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dependencies for component %s: %w", componentID, err)
	}

	seen := map[string]bool{componentID: true}
	for _, g := range groups {
		for _, ref := range g.References {
			if ref.ComponentID == "" || seen[ref.ComponentID] {
				continue
			}
			seen[ref.ComponentID] = true
			info.DependencyIDs = append(info.DependencyIDs, ref.ComponentID)
		}
	}
	logging.Debug("Platform", "Component %s references %d component(s)", componentID, len(info.DependencyIDs))
	return info, nil
}

func (m componentMetadata) toComponentInfo() api.ComponentInfo {
	return api.ComponentInfo{
		ID:         m.ComponentID,
		Name:       m.Name,
		Type:       m.Type,
		Version:    string(m.Version),
		FolderName: m.FolderName,
	}
}

// queryAll runs <resource>/query and follows <resource>/queryMore until the
// platform stops returning a continuation token. A token handed out twice
// ends the query with the items collected so far.
func queryAll[T any](ctx context.Context, c *Client, resource string, filter queryFilter) ([]T, error) {
	var page queryResponse[T]
	if err := c.do(ctx, "POST", resource+"/query", filter, &page); err != nil {
		return nil, err
	}
	items := page.Result
	seen := make(map[string]bool)

	for pages := 1; page.QueryToken != ""; pages++ {
		token := page.QueryToken
		if seen[token] {
			logging.Warn("Platform", "%s/queryMore returned an already used token after %d page(s); stopping", resource, pages)
			break
		}
		seen[token] = true
		page = queryResponse[T]{}
		if err := c.do(ctx, "POST", resource+"/queryMore", token, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Result...)
		logging.Debug("Platform", "Fetched page %d of %s (%d items so far)", pages+1, resource, len(items))
	}
	return items, nil
}
