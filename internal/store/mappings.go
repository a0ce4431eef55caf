package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"testplanner/internal/api"
)

// MappingRepository stores one document per mapping.
type MappingRepository struct {
	mu      sync.Mutex
	storage *Storage
}

func (r *MappingRepository) Create(ctx context.Context, m *api.Mapping) error {
	if m == nil || m.ID == "" {
		return fmt.Errorf("mapping id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var existing api.Mapping
	err := r.storage.Load(entityMappings, m.ID, &existing)
	if err == nil {
		return &api.ConflictError{Message: fmt.Sprintf("mapping %s already exists", m.ID)}
	}
	if !isNotExist(err) {
		return err
	}
	return r.storage.Save(entityMappings, m.ID, m)
}

func (r *MappingRepository) FindByID(ctx context.Context, id string) (*api.Mapping, error) {
	var m api.Mapping
	if err := r.storage.Load(entityMappings, id, &m); err != nil {
		if isNotExist(err) {
			return nil, api.NewNotFoundError("mapping", id)
		}
		return nil, err
	}
	return &m, nil
}

// FindAll returns every mapping ordered by creation time.
func (r *MappingRepository) FindAll(ctx context.Context) ([]*api.Mapping, error) {
	ids, err := r.storage.List(entityMappings)
	if err != nil {
		return nil, err
	}

	mappings := make([]*api.Mapping, 0, len(ids))
	for _, id := range ids {
		var m api.Mapping
		if err := r.storage.Load(entityMappings, id, &m); err != nil {
			if isNotExist(err) {
				continue
			}
			return nil, err
		}
		mappings = append(mappings, &m)
	}

	sort.SliceStable(mappings, func(i, j int) bool {
		return mappings[i].CreatedAt.Before(mappings[j].CreatedAt)
	})
	return mappings, nil
}

func (r *MappingRepository) FindByMainComponentID(ctx context.Context, mainComponentID string) ([]*api.Mapping, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*api.Mapping
	for _, m := range all {
		if m.MainComponentID == mainComponentID {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (r *MappingRepository) Update(ctx context.Context, m *api.Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing api.Mapping
	if err := r.storage.Load(entityMappings, m.ID, &existing); err != nil {
		if isNotExist(err) {
			return api.NewNotFoundError("mapping", m.ID)
		}
		return err
	}
	return r.storage.Save(entityMappings, m.ID, m)
}

func (r *MappingRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storage.Delete(entityMappings, id)
}

// FindAllTestsForMainComponents groups the registered tests by main
// component. Ids without mappings do not appear in the result.
func (r *MappingRepository) FindAllTestsForMainComponents(ctx context.Context, mainComponentIDs []string) (map[string][]api.AvailableTest, error) {
	tests := make(map[string][]api.AvailableTest)
	if len(mainComponentIDs) == 0 {
		return tests, nil
	}

	wanted := make(map[string]bool, len(mainComponentIDs))
	for _, id := range mainComponentIDs {
		wanted[id] = true
	}

	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range all {
		if !wanted[m.MainComponentID] {
			continue
		}
		tests[m.MainComponentID] = append(tests[m.MainComponentID], api.AvailableTest{
			ID:   m.TestComponentID,
			Name: m.TestComponentName,
		})
	}
	return tests, nil
}
