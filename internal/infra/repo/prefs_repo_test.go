package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go_mock_panel/internal/domain/model/prefs"
	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/internal/infra/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	mu        sync.Mutex
	rows      map[string]prefs.PanelPrefs
	failSaves int
	saves     int
	gets      int
}

func (f *fakeDB) SavePrefsToDB(_ context.Context, p *prefs.PanelPrefs) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.failSaves > 0 {
		f.failSaves--
		return errors.New("deadlock found")
	}
	if cur, ok := f.rows[p.SessionID]; ok && cur.Version >= p.Version {
		return storage.ErrStalePrefs
	}
	f.rows[p.SessionID] = *p
	return nil
}

func (f *fakeDB) GetPrefsFromDB(_ context.Context, id string) (*prefs.PanelPrefs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeDB) DeletePrefsFromDB(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]prefs.PanelPrefs
}

func (f *fakeCache) GetPrefsFromCache(_ context.Context, id string) (*prefs.PanelPrefs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.entries[id]
	if !ok {
		return nil, storage.ErrCacheMiss
	}
	return &p, nil
}

func (f *fakeCache) SetPrefsToCache(_ context.Context, p *prefs.PanelPrefs) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[p.SessionID] = *p
	return nil
}

func (f *fakeCache) DeletePrefsFromCache(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	return nil
}

func (f *fakeCache) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[id]
	return ok
}

func newTestRepo(t *testing.T) (PrefsRepositoryIface, *fakeDB, *fakeCache) {
	t.Helper()
	db := &fakeDB{rows: map[string]prefs.PanelPrefs{}}
	cache := &fakeCache{entries: map[string]prefs.PanelPrefs{}}
	r := NewPrefsRepoImpl(db, cache, &configs.PrefsRepoConfig{
		RedisCacheRetryCount: 2,
		SaveDBRetryCount:     3,
		PoolSize:             2,
	})
	t.Cleanup(r.Close)
	return r, db, cache
}

func TestFindBySessionCacheHit(t *testing.T) {
	r, db, cache := newTestRepo(t)
	cache.entries["s1"] = prefs.PanelPrefs{SessionID: "s1", SelectedFolder: "users"}

	p, err := r.FindBySession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "users", p.SelectedFolder)
	assert.Zero(t, db.gets)
}

func TestFindBySessionFallsBackToDBAndFillsCache(t *testing.T) {
	r, db, cache := newTestRepo(t)
	db.rows["s1"] = prefs.PanelPrefs{SessionID: "s1", BackendURL: "http://b"}

	p, err := r.FindBySession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "http://b", p.BackendURL)
	assert.True(t, cache.has("s1"))
}

func TestFindBySessionUnknown(t *testing.T) {
	r, _, cache := newTestRepo(t)

	p, err := r.FindBySession(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, cache.has("nobody"))
}

func TestSavePrefsRetriesDBAndInvalidatesCache(t *testing.T) {
	r, db, cache := newTestRepo(t)
	db.failSaves = 2
	cache.entries["s1"] = prefs.PanelPrefs{SessionID: "s1", SelectedFolder: "users"}

	err := r.SavePrefs(context.Background(), &prefs.PanelPrefs{SessionID: "s1", SelectedFolder: "orders", Version: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, db.saves)
	assert.Equal(t, "orders", db.rows["s1"].SelectedFolder)
	assert.False(t, cache.has("s1"))
}

func TestSavePrefsDropsOlderVersion(t *testing.T) {
	r, db, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SavePrefs(ctx, &prefs.PanelPrefs{SessionID: "s1", SelectedFolder: "newer", Version: 3}))
	require.NoError(t, r.SavePrefs(ctx, &prefs.PanelPrefs{SessionID: "s1", SelectedFolder: "older", Version: 2}))

	assert.Equal(t, "newer", db.rows["s1"].SelectedFolder)
	assert.Equal(t, 2, db.saves, "stale saves are not retried")
}

func TestSavePrefsGivesUp(t *testing.T) {
	r, db, _ := newTestRepo(t)
	db.failSaves = 10

	err := r.SavePrefs(context.Background(), &prefs.PanelPrefs{SessionID: "s1"})
	assert.Error(t, err)
	assert.Equal(t, 3, db.saves)
}

func TestSavePrefsRequiresSession(t *testing.T) {
	r, _, _ := newTestRepo(t)
	assert.Error(t, r.SavePrefs(context.Background(), &prefs.PanelPrefs{}))
}

func TestSavePrefsAsync(t *testing.T) {
	r, db, _ := newTestRepo(t)

	p := &prefs.PanelPrefs{SessionID: "s1", SelectedFolder: "a", Version: 1}
	r.SavePrefsAsync(p)
	p.SelectedFolder = "changed after submit"

	assert.Eventually(t, func() bool {
		db.mu.Lock()
		defer db.mu.Unlock()
		return db.rows["s1"].SelectedFolder == "a"
	}, time.Second, 5*time.Millisecond)
}

func TestDeletePrefs(t *testing.T) {
	r, db, cache := newTestRepo(t)
	db.rows["s1"] = prefs.PanelPrefs{SessionID: "s1"}
	cache.entries["s1"] = prefs.PanelPrefs{SessionID: "s1"}

	require.NoError(t, r.DeletePrefs(context.Background(), "s1"))
	assert.NotContains(t, db.rows, "s1")
	assert.False(t, cache.has("s1"))
}

func TestNewPrefsRepositoryDisabled(t *testing.T) {
	r, cleanup := NewPrefsRepository(configs.Default())
	defer cleanup()

	p, err := r.FindBySession(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, r.SavePrefs(context.Background(), &prefs.PanelPrefs{SessionID: "s1"}))
}
