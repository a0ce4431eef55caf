package mapping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"testplanner/internal/api"
	"testplanner/pkg/logging"

	"github.com/google/uuid"
)

// Service manages the registry of test components per main component.
type Service struct {
	repo api.MappingRepository
	now  func() time.Time
}

var _ api.MappingHandler = (*Service)(nil)

// NewService creates a mapping service on top of repo.
func NewService(repo api.MappingRepository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// CreateMapping registers a test against a main component. Registering the
// same pair twice is a conflict.
func (s *Service) CreateMapping(ctx context.Context, req api.CreateMappingRequest) (*api.Mapping, error) {
	req.MainComponentID = strings.TrimSpace(req.MainComponentID)
	req.TestComponentID = strings.TrimSpace(req.TestComponentID)
	if req.MainComponentID == "" {
		return nil, &api.ValidationError{Field: "mainComponentId", Message: "is required"}
	}
	if req.TestComponentID == "" {
		return nil, &api.ValidationError{Field: "testComponentId", Message: "is required"}
	}

	if err := s.ensureUnique(ctx, req.MainComponentID, req.TestComponentID, ""); err != nil {
		return nil, err
	}

	now := s.now()
	m := &api.Mapping{
		ID:                uuid.New().String(),
		MainComponentID:   req.MainComponentID,
		MainComponentName: req.MainComponentName,
		TestComponentID:   req.TestComponentID,
		TestComponentName: req.TestComponentName,
		IsDeployed:        req.IsDeployed,
		IsPackaged:        req.IsPackaged,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create mapping: %w", err)
	}
	logging.Info("Mapping", "Mapped test %s to component %s", m.TestComponentID, m.MainComponentID)
	return m, nil
}

func (s *Service) GetMapping(ctx context.Context, id string) (*api.Mapping, error) {
	return s.repo.FindByID(ctx, id)
}

// ListMappings returns all mappings, or only those of mainComponentID when set.
func (s *Service) ListMappings(ctx context.Context, mainComponentID string) ([]*api.Mapping, error) {
	if mainComponentID != "" {
		return s.repo.FindByMainComponentID(ctx, mainComponentID)
	}
	return s.repo.FindAll(ctx)
}

func (s *Service) UpdateMapping(ctx context.Context, id string, req api.UpdateMappingRequest) (*api.Mapping, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TestComponentID != nil {
		testID := strings.TrimSpace(*req.TestComponentID)
		if testID == "" {
			return nil, &api.ValidationError{Field: "testComponentId", Message: "must not be empty"}
		}
		if testID != m.TestComponentID {
			if err := s.ensureUnique(ctx, m.MainComponentID, testID, m.ID); err != nil {
				return nil, err
			}
			m.TestComponentID = testID
		}
	}
	if req.TestComponentName != nil {
		m.TestComponentName = *req.TestComponentName
	}
	if req.IsDeployed != nil {
		m.IsDeployed = req.IsDeployed
	}
	if req.IsPackaged != nil {
		m.IsPackaged = req.IsPackaged
	}
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update mapping %s: %w", id, err)
	}
	return m, nil
}

func (s *Service) DeleteMapping(ctx context.Context, id string) error {
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete mapping %s: %w", id, err)
	}
	if !existed {
		return api.NewNotFoundError("mapping", id)
	}
	logging.Info("Mapping", "Deleted mapping %s", id)
	return nil
}

// TestsForComponents returns the registered tests per main component id.
// Ids without mappings are absent from the result.
func (s *Service) TestsForComponents(ctx context.Context, componentIDs []string) (map[string][]api.AvailableTest, error) {
	return s.repo.FindAllTestsForMainComponents(ctx, componentIDs)
}

func (s *Service) ensureUnique(ctx context.Context, mainID, testID, ignoreID string) error {
	existing, err := s.repo.FindByMainComponentID(ctx, mainID)
	if err != nil {
		return fmt.Errorf("failed to check existing mappings: %w", err)
	}
	for _, m := range existing {
		if m.TestComponentID == testID && m.ID != ignoreID {
			return &api.ConflictError{
				Message: fmt.Sprintf("A mapping between main component %s and test component %s already exists.", mainID, testID),
			}
		}
	}
	return nil
}
