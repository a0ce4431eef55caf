package credentials

import (
	"context"
	"fmt"
	"strings"

	"testplanner/internal/api"
	"testplanner/pkg/logging"
)

// Service manages named platform credential profiles.
type Service struct {
	store api.CredentialStore
}

var _ api.CredentialHandler = (*Service)(nil)

func NewService(store api.CredentialStore) *Service {
	return &Service{store: store}
}

// AddCredentials validates and stores a profile, replacing any profile of the
// same name.
func (s *Service) AddCredentials(ctx context.Context, profileName string, creds api.Credentials) (*api.CredentialProfile, error) {
	profileName = strings.TrimSpace(profileName)
	required := []struct{ field, value string }{
		{"profileName", profileName},
		{"accountId", creds.AccountID},
		{"username", creds.Username},
		{"passwordOrToken", creds.PasswordOrToken},
		{"executionInstanceId", creds.ExecutionInstanceID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &api.ValidationError{Field: r.field, Message: "is required"}
		}
	}

	if err := s.store.Add(ctx, profileName, creds); err != nil {
		return nil, fmt.Errorf("failed to store credential profile %s: %w", profileName, err)
	}
	logging.Info("Credentials", "Stored credential profile %s for account %s", profileName, creds.AccountID)

	return &api.CredentialProfile{
		ProfileName:         profileName,
		AccountID:           creds.AccountID,
		Username:            creds.Username,
		ExecutionInstanceID: creds.ExecutionInstanceID,
	}, nil
}

func (s *Service) ListCredentials(ctx context.Context) ([]api.CredentialProfile, error) {
	return s.store.List(ctx)
}

func (s *Service) DeleteCredentials(ctx context.Context, profileName string) error {
	existed, err := s.store.Delete(ctx, profileName)
	if err != nil {
		return fmt.Errorf("failed to delete credential profile %s: %w", profileName, err)
	}
	if !existed {
		return api.NewNotFoundError("credential profile", profileName)
	}
	logging.Info("Credentials", "Deleted credential profile %s", profileName)
	return nil
}
