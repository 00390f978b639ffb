package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is a ReferenceCache that keeps JSON in a map
type mapCache struct {
	entries map[string][]byte
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.failGet {
		return false, errors.New("connection refused")
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func TestResolveReferences(t *testing.T) {
	f := newFixture(t)

	got, err := f.refs.ResolveApplicationType(f.ctx, domain.ParseRef("Domicile"))
	require.NoError(t, err)
	assert.Equal(t, f.domicile.ID, got.ID)

	_, err = f.refs.ResolveApplicationType(f.ctx, domain.ParseRef(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.refs.ResolveApplicationType(f.ctx, domain.ParseRef("domicile"))
	assert.ErrorIs(t, err, domain.ErrNotFound, "names match exactly")
	assert.Equal(t, "Application type not found: domicile", domain.MessageOf(err))

	officer, err := f.refs.ResolveOfficer(f.ctx, domain.ParseRef(""))
	require.NoError(t, err)
	assert.Nil(t, officer)

	officer, err = f.refs.ResolveOfficer(f.ctx, domain.RefByID(f.officerB.ID))
	require.NoError(t, err)
	assert.Equal(t, "Deputy Commissioner", officer.Name)

	_, err = f.refs.ResolveOfficer(f.ctx, domain.ParseRef("64b7f0c2a1b2c3d4e5f60718"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListReferencesSkipsInactive(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repos.ApplicationTypes.Create(f.ctx, &models.ApplicationType{Name: "Arms License"}))

	active, err := f.refs.ListApplicationTypes(f.ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Domicile", active[0].Name)

	all, byID, err := f.refs.AllApplicationTypes(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, byID, f.domicile.ID)

	officers, err := f.refs.ListOfficers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, officers, 2)
	assert.Equal(t, "Assistant Commissioner", officers[0].Name)
}

func TestReferenceCache(t *testing.T) {
	f := newFixture(t)
	cache := newMapCache()
	refs := NewReferenceService(f.repos.ApplicationTypes, f.repos.Officers, cache, logging.Nop())

	first, err := refs.ListApplicationTypes(f.ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, cache.entries, "application_types")

	require.NoError(t, f.repos.ApplicationTypes.Create(f.ctx, &models.ApplicationType{Name: "Birth Certificate", IsActive: true}))

	cached, err := refs.ListApplicationTypes(f.ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1, "served from cache")
	assert.Equal(t, first[0].ID, cached[0].ID)

	require.NoError(t, refs.RefreshCache(f.ctx))
	fresh, err := refs.ListApplicationTypes(f.ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Contains(t, cache.entries, "officers")

	t.Run("read failures fall back to the store", func(t *testing.T) {
		cache.failGet = true
		officers, err := refs.ListOfficers(f.ctx)
		require.NoError(t, err)
		assert.Len(t, officers, 2)
	})
}

func TestCronService(t *testing.T) {
	f := newFixture(t)

	bad := NewCronService(f.refs, f.files, config.CronConfig{ReferenceRefresh: "every tuesday"})
	assert.Error(t, bad.Start())

	cron := NewCronService(f.refs, f.files, config.CronConfig{
		ReferenceRefresh: "@every 1h",
		FilePurge:        "@daily",
	})
	require.NoError(t, cron.Start())
	assert.Len(t, cron.cron.Entries(), 2)
	cron.Stop()

	saved, err := f.files.Upload(f.ctx, []UploadFile{pdf("old.pdf")}, nil)
	require.NoError(t, err)
	require.NoError(t, f.files.Delete(f.ctx, saved[0].ID, adminActor()))

	// zero retention purges every deleted record
	cron.PurgeFiles()
	cron.RefreshReferenceCache()

	list, err := f.files.List(f.ctx, 1, 10, "", adminActor())
	require.NoError(t, err)
	assert.Empty(t, list.Files)
	n, err := f.files.PurgeInactive(f.ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n, "already purged")
}
