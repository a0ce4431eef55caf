package mapping

import (
	"context"
	"testing"

	"testplanner/internal/api"
	"testplanner/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	return NewService(store.New(t.TempDir()).Mappings)
}

func TestCreateMapping(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	deployed := true

	m, err := s.CreateMapping(ctx, api.CreateMappingRequest{
		MainComponentID:   " A ",
		TestComponentID:   "T1",
		TestComponentName: "Orders test",
		IsDeployed:        &deployed,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "A", m.MainComponentID)
	require.NotNil(t, m.IsDeployed)
	assert.True(t, *m.IsDeployed)
	assert.Nil(t, m.IsPackaged)

	_, err = s.CreateMapping(ctx, api.CreateMappingRequest{MainComponentID: "A", TestComponentID: "T1"})
	assert.True(t, api.IsConflict(err))

	_, err = s.CreateMapping(ctx, api.CreateMappingRequest{MainComponentID: "B", TestComponentID: "T1"})
	assert.NoError(t, err, "same test may cover another component")
}

func TestCreateMapping_Validation(t *testing.T) {
	s := newService(t)

	_, err := s.CreateMapping(context.Background(), api.CreateMappingRequest{TestComponentID: "T1"})
	assert.True(t, api.IsValidation(err))

	_, err = s.CreateMapping(context.Background(), api.CreateMappingRequest{MainComponentID: "A"})
	assert.True(t, api.IsValidation(err))
}

func TestListAndLookup(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	for _, pair := range [][2]string{{"A", "T1"}, {"A", "T2"}, {"C", "T1"}} {
		_, err := s.CreateMapping(ctx, api.CreateMappingRequest{MainComponentID: pair[0], TestComponentID: pair[1]})
		require.NoError(t, err)
	}

	all, err := s.ListMappings(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forA, err := s.ListMappings(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, forA, 2)

	tests, err := s.TestsForComponents(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Len(t, tests["A"], 2)
	assert.Equal(t, []api.AvailableTest{{ID: "T1"}}, tests["C"])
	assert.NotContains(t, tests, "B")
}

func TestUpdateMapping(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	m1, err := s.CreateMapping(ctx, api.CreateMappingRequest{MainComponentID: "A", TestComponentID: "T1"})
	require.NoError(t, err)
	_, err = s.CreateMapping(ctx, api.CreateMappingRequest{MainComponentID: "A", TestComponentID: "T2"})
	require.NoError(t, err)

	name := "Renamed"
	packaged := false
	updated, err := s.UpdateMapping(ctx, m1.ID, api.UpdateMappingRequest{TestComponentName: &name, IsPackaged: &packaged})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.TestComponentName)
	require.NotNil(t, updated.IsPackaged)
	assert.False(t, *updated.IsPackaged)

	clash := "T2"
	_, err = s.UpdateMapping(ctx, m1.ID, api.UpdateMappingRequest{TestComponentID: &clash})
	assert.True(t, api.IsConflict(err))

	same := "T1"
	_, err = s.UpdateMapping(ctx, m1.ID, api.UpdateMappingRequest{TestComponentID: &same})
	assert.NoError(t, err)

	_, err = s.UpdateMapping(ctx, "missing", api.UpdateMappingRequest{})
	assert.True(t, api.IsNotFound(err))
}

func TestDeleteMapping(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	m, err := s.CreateMapping(ctx, api.CreateMappingRequest{MainComponentID: "A", TestComponentID: "T1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteMapping(ctx, m.ID))
	assert.True(t, api.IsNotFound(s.DeleteMapping(ctx, m.ID)))
	_, err = s.GetMapping(ctx, m.ID)
	assert.True(t, api.IsNotFound(err))
}
