package store

import (
	"errors"

	"testplanner/internal/api"
)

// Entity directories under the data directory.
const (
	entityTestPlans      = "test-plans"
	entityEntryPoints    = "entry-points"
	entityPlanComponents = "plan-components"
	entityResults        = "results"
	entityMappings       = "mappings"
	entityCredentials    = "credentials"
)

// Store bundles the file-backed repositories that share one data directory.
type Store struct {
	Plans       *PlanRepository
	EntryPoints *EntryPointRepository
	Components  *ComponentRepository
	Results     *ResultRepository
	Mappings    *MappingRepository
	Credentials *CredentialRepository
}

// New opens (lazily) a store rooted at dir.
func New(dir string) *Store {
	storage := NewStorage(dir)

	s := &Store{
		EntryPoints: &EntryPointRepository{storage: storage},
		Components:  &ComponentRepository{storage: storage},
		Mappings:    &MappingRepository{storage: storage},
		Credentials: &CredentialRepository{storage: storage},
	}
	s.Results = &ResultRepository{storage: storage, components: s.Components, mappings: s.Mappings}
	s.Plans = &PlanRepository{storage: storage, cascade: []planScoped{s.EntryPoints, s.Components, s.Results}}
	s.Results.plans = s.Plans
	return s
}

var (
	_ api.TestPlanRepository        = (*PlanRepository)(nil)
	_ api.EntryPointRepository      = (*EntryPointRepository)(nil)
	_ api.PlanComponentRepository   = (*ComponentRepository)(nil)
	_ api.ExecutionResultRepository = (*ResultRepository)(nil)
	_ api.MappingRepository         = (*MappingRepository)(nil)
	_ api.CredentialStore           = (*CredentialRepository)(nil)
)

// planScoped is implemented by repositories whose documents belong to a plan.
type planScoped interface {
	deletePlan(planID string) error
}

func isNotExist(err error) bool {
	return errors.Is(err, errEntityNotFound)
}
