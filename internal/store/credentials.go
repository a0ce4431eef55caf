package store

import (
	"context"
	"sort"

	"testplanner/internal/api"
)

type credentialDocument struct {
	ProfileName string          `yaml:"profileName"`
	Credentials api.Credentials `yaml:"credentials"`
}

// CredentialRepository stores one document per credential profile. Files are
// readable by the owner only.
type CredentialRepository struct {
	storage *Storage
}

// Add creates or replaces a profile.
func (r *CredentialRepository) Add(ctx context.Context, profileName string, creds api.Credentials) error {
	if profileName == "" {
		return &api.ValidationError{Field: "profileName", Message: "is required"}
	}
	return r.storage.SavePrivate(entityCredentials, profileName, credentialDocument{ProfileName: profileName, Credentials: creds})
}

func (r *CredentialRepository) Get(ctx context.Context, profileName string) (*api.Credentials, error) {
	if profileName == "" {
		return nil, api.NewNotFoundError("credential profile", profileName)
	}
	var doc credentialDocument
	if err := r.storage.Load(entityCredentials, profileName, &doc); err != nil {
		if isNotExist(err) {
			return nil, api.NewNotFoundError("credential profile", profileName)
		}
		return nil, err
	}
	return &doc.Credentials, nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]api.CredentialProfile, error) {
	names, err := r.storage.List(entityCredentials)
	if err != nil {
		return nil, err
	}

	profiles := make([]api.CredentialProfile, 0, len(names))
	for _, name := range names {
		var doc credentialDocument
		if err := r.storage.Load(entityCredentials, name, &doc); err != nil {
			if isNotExist(err) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, api.CredentialProfile{
			ProfileName:         doc.ProfileName,
			AccountID:           doc.Credentials.AccountID,
			Username:            doc.Credentials.Username,
			ExecutionInstanceID: doc.Credentials.ExecutionInstanceID,
		})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ProfileName < profiles[j].ProfileName })
	return profiles, nil
}

func (r *CredentialRepository) Delete(ctx context.Context, profileName string) (bool, error) {
	if profileName == "" {
		return false, nil
	}
	return r.storage.Delete(entityCredentials, profileName)
}
