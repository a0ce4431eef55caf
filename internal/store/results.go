package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"testplanner/internal/api"
)

// ResultRepository stores the execution results of each plan in one document.
type ResultRepository struct {
	mu         sync.Mutex
	storage    *Storage
	plans      *PlanRepository
	components *ComponentRepository
	mappings   *MappingRepository
}

// Save appends one result to its plan's document. It returns a
// *api.NotFoundError when the plan has been deleted.
func (r *ResultRepository) Save(ctx context.Context, result *api.TestExecutionResult) error {
	if result == nil || result.TestPlanID == "" {
		return fmt.Errorf("result must reference a test plan")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := requirePlan(r.storage, result.TestPlanID); err != nil {
		return err
	}
	results, err := r.load(result.TestPlanID)
	if err != nil {
		return err
	}
	return r.storage.Save(entityResults, result.TestPlanID, append(results, *result))
}

func (r *ResultRepository) FindByPlanComponentIDs(ctx context.Context, planID string, planComponentIDs []string) ([]api.TestExecutionResult, error) {
	if len(planComponentIDs) == 0 {
		return nil, nil
	}
	wanted := make(map[string]bool, len(planComponentIDs))
	for _, id := range planComponentIDs {
		wanted[id] = true
	}

	results, err := r.load(planID)
	if err != nil {
		return nil, err
	}

	var matched []api.TestExecutionResult
	for _, res := range results {
		if wanted[res.PlanComponentID] {
			matched = append(matched, res)
		}
	}
	return matched, nil
}

// FindByFilter returns results enriched with plan, component and test names,
// newest first. An empty filter matches nothing.
func (r *ResultRepository) FindByFilter(ctx context.Context, filter api.ResultFilter) ([]api.TestExecutionResult, error) {
	if filter.IsEmpty() {
		return []api.TestExecutionResult{}, nil
	}

	planIDs := []string{filter.TestPlanID}
	if filter.TestPlanID == "" {
		var err error
		if planIDs, err = r.storage.List(entityResults); err != nil {
			return nil, err
		}
	}

	testNames, err := r.testComponentNames(ctx)
	if err != nil {
		return nil, err
	}

	matched := []api.TestExecutionResult{}
	for _, planID := range planIDs {
		results, err := r.load(planID)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			continue
		}

		planName := ""
		if plan, err := r.plans.FindByID(ctx, planID); err == nil {
			planName = plan.Name
		}
		components, err := r.components.FindByTestPlanID(ctx, planID)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]api.PlanComponent, len(components))
		for _, c := range components {
			byID[c.ID] = c
		}

		for _, res := range results {
			pc := byID[res.PlanComponentID]
			if filter.ComponentID != "" && pc.ComponentID != filter.ComponentID {
				continue
			}
			if filter.TestComponentID != "" && res.TestComponentID != filter.TestComponentID {
				continue
			}
			if filter.Status != "" && res.Status != filter.Status {
				continue
			}
			res.TestPlanName = planName
			res.ComponentName = pc.ComponentName
			res.TestComponentName = testNames[res.TestComponentID]
			if res.TestComponentName == "" && pc.ComponentID == res.TestComponentID {
				res.TestComponentName = pc.ComponentName
			}
			matched = append(matched, res)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ExecutedAt.After(matched[j].ExecutedAt)
	})
	return matched, nil
}

func (r *ResultRepository) DeleteByTestPlanID(ctx context.Context, planID string) error {
	return r.deletePlan(planID)
}

func (r *ResultRepository) deletePlan(planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.storage.Delete(entityResults, planID)
	return err
}

func (r *ResultRepository) load(planID string) ([]api.TestExecutionResult, error) {
	var results []api.TestExecutionResult
	if err := r.storage.Load(entityResults, planID, &results); err != nil && !isNotExist(err) {
		return nil, err
	}
	return results, nil
}

func (r *ResultRepository) testComponentNames(ctx context.Context) (map[string]string, error) {
	mappings, err := r.mappings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.TestComponentName != "" {
			names[m.TestComponentID] = m.TestComponentName
		}
	}
	return names, nil
}
