package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type fakeCategoryRepo struct {
	names     []string
	seeded    bool
	listCalls int
	ensureErr error
}

func (f *fakeCategoryRepo) EnsureDefaults(context.Context) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.seeded = true
	return nil
}

func (f *fakeCategoryRepo) ListNames(context.Context) ([]string, error) {
	f.listCalls++
	return f.names, nil
}

type fakeCategoryCache struct {
	values map[string][]string
	sets   int
}

func (f *fakeCategoryCache) Get(_ context.Context, key string, dest interface{}) error {
	cached, ok := f.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*[]string)) = cached
	return nil
}

func (f *fakeCategoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.values == nil {
		f.values = map[string][]string{}
	}
	f.values[key] = value.([]string)
	f.sets++
	return nil
}

func TestCategoryServiceSeed(t *testing.T) {
	repo := &fakeCategoryRepo{}
	svc := NewCategoryService(repo, nil, 0, nil)

	require.NoError(t, svc.Seed(context.Background()))
	assert.True(t, repo.seeded)
}

func TestCategoryServiceListWithoutCache(t *testing.T) {
	repo := &fakeCategoryRepo{names: []string{"Academic", "Hostel", "Other"}}
	svc := NewCategoryService(repo, nil, 0, nil)

	names, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Academic", "Hostel", "Other"}, names)
}

func TestCategoryServiceListPopulatesCache(t *testing.T) {
	repo := &fakeCategoryRepo{names: []string{"Academic", "Hostel"}}
	cache := &fakeCategoryCache{}
	svc := NewCategoryService(repo, cache, time.Hour, nil)

	names, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Academic", "Hostel"}, names)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from the cache.
	names, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Academic", "Hostel"}, names)
	assert.Equal(t, 1, repo.listCalls)
}
