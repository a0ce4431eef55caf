package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"testplanner/internal/api"
	"testplanner/pkg/logging"
)

// PlanRepository stores one document per test plan.
type PlanRepository struct {
	mu      sync.Mutex
	storage *Storage
	cascade []planScoped
}

func (r *PlanRepository) Save(ctx context.Context, plan *api.TestPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("test plan id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storage.Save(entityTestPlans, plan.ID, plan)
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*api.TestPlan, error) {
	var plan api.TestPlan
	if err := r.storage.Load(entityTestPlans, id, &plan); err != nil {
		if isNotExist(err) {
			return nil, api.NewNotFoundError("test plan", id)
		}
		return nil, err
	}
	return &plan, nil
}

// Update overwrites an existing plan. It returns a *api.NotFoundError when
// the plan has been deleted in the meantime.
func (r *PlanRepository) Update(ctx context.Context, plan *api.TestPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing api.TestPlan
	if err := r.storage.Load(entityTestPlans, plan.ID, &existing); err != nil {
		if isNotExist(err) {
			return api.NewNotFoundError("test plan", plan.ID)
		}
		return err
	}
	return r.storage.Save(entityTestPlans, plan.ID, plan)
}

// FindAll returns every plan, newest first.
func (r *PlanRepository) FindAll(ctx context.Context) ([]*api.TestPlan, error) {
	ids, err := r.storage.List(entityTestPlans)
	if err != nil {
		return nil, err
	}

	plans := make([]*api.TestPlan, 0, len(ids))
	for _, id := range ids {
		var plan api.TestPlan
		if err := r.storage.Load(entityTestPlans, id, &plan); err != nil {
			if isNotExist(err) {
				continue
			}
			return nil, err
		}
		plans = append(plans, &plan)
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// DeleteByID removes the plan together with its entry points, components
// and results.
func (r *PlanRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existed, err := r.storage.Delete(entityTestPlans, id)
	if err != nil || !existed {
		return existed, err
	}

	for _, owned := range r.cascade {
		if err := owned.deletePlan(id); err != nil {
			return true, fmt.Errorf("failed to delete data owned by test plan %s: %w", id, err)
		}
	}
	logging.Info("Storage", "Deleted test plan %s", id)
	return true, nil
}

// EntryPointRepository stores the entry points of each plan in one document.
type EntryPointRepository struct {
	mu      sync.Mutex
	storage *Storage
}

func (r *EntryPointRepository) SaveAll(ctx context.Context, entryPoints []api.TestPlanEntryPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for planID, batch := range groupByPlan(entryPoints, func(e api.TestPlanEntryPoint) string { return e.TestPlanID }) {
		var existing []api.TestPlanEntryPoint
		if err := r.storage.Load(entityEntryPoints, planID, &existing); err != nil && !isNotExist(err) {
			return err
		}
		if err := r.storage.Save(entityEntryPoints, planID, append(existing, batch...)); err != nil {
			return err
		}
	}
	return nil
}

func (r *EntryPointRepository) FindByTestPlanID(ctx context.Context, planID string) ([]api.TestPlanEntryPoint, error) {
	var entryPoints []api.TestPlanEntryPoint
	if err := r.storage.Load(entityEntryPoints, planID, &entryPoints); err != nil && !isNotExist(err) {
		return nil, err
	}
	return entryPoints, nil
}

func (r *EntryPointRepository) deletePlan(planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.storage.Delete(entityEntryPoints, planID)
	return err
}

// ComponentRepository stores the plan components of each plan in one document.
type ComponentRepository struct {
	mu      sync.Mutex
	storage *Storage
}

// SaveAll appends components to their plans. A component id already present
// in a plan is skipped. Components of a deleted plan are rejected with a
// *api.NotFoundError.
func (r *ComponentRepository) SaveAll(ctx context.Context, components []api.PlanComponent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batches := groupByPlan(components, func(c api.PlanComponent) string { return c.TestPlanID })
	for planID := range batches {
		if err := requirePlan(r.storage, planID); err != nil {
			return err
		}
	}

	for planID, batch := range batches {
		var existing []api.PlanComponent
		if err := r.storage.Load(entityPlanComponents, planID, &existing); err != nil && !isNotExist(err) {
			return err
		}

		seen := make(map[string]bool, len(existing))
		for _, c := range existing {
			seen[c.ComponentID] = true
		}
		for _, c := range batch {
			if seen[c.ComponentID] {
				continue
			}
			seen[c.ComponentID] = true
			existing = append(existing, c)
		}

		if err := r.storage.Save(entityPlanComponents, planID, existing); err != nil {
			return err
		}
	}
	return nil
}

func (r *ComponentRepository) FindByTestPlanID(ctx context.Context, planID string) ([]api.PlanComponent, error) {
	var components []api.PlanComponent
	if err := r.storage.Load(entityPlanComponents, planID, &components); err != nil && !isNotExist(err) {
		return nil, err
	}
	return components, nil
}

func (r *ComponentRepository) deletePlan(planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.storage.Delete(entityPlanComponents, planID)
	return err
}

func groupByPlan[T any](items []T, planOf func(T) string) map[string][]T {
	grouped := make(map[string][]T)
	for _, item := range items {
		id := planOf(item)
		grouped[id] = append(grouped[id], item)
	}
	return grouped
}

// requirePlan returns a *api.NotFoundError when the plan document is gone.
// Call it with the repository lock held; the DeleteByID cascade takes the same lock.
func requirePlan(storage *Storage, planID string) error {
	var plan api.TestPlan
	if err := storage.Load(entityTestPlans, planID, &plan); err != nil {
		if isNotExist(err) {
			return api.NewNotFoundError("test plan", planID)
		}
		return err
	}
	return nil
}
