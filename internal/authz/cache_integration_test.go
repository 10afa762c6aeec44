//go:build integration

package authz

// Integration tests for the read-through permission cache against real Redis.
// Run with: go test -tags integration ./internal/authz/... -v

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/lazarohernan/ezorder-backend/internal/infra"
)

type countingStore struct {
	perms []string
	calls int
}

func (s *countingStore) PermissionsForRole(ctx context.Context, rolID int64) ([]string, error) {
	s.calls++
	return s.perms, nil
}

func (s *countingStore) RoleIsSuperAdmin(ctx context.Context, rolID int64) (bool, error) {
	return false, nil
}

func setupCache(t *testing.T, inner PermissionStore, ttl time.Duration) *CachedStore {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)

	return NewCachedStore(inner, rdb, ttl)
}

func TestCachedStore_SegundaLecturaNoTocaPostgres(t *testing.T) {
	inner := &countingStore{perms: []string{"caja.abrir", "menu.ver"}}
	cache := setupCache(t, inner, time.Minute)
	ctx := context.Background()

	perms, err := cache.PermissionsForRole(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"caja.abrir", "menu.ver"}, perms)
	assert.Equal(t, 1, inner.calls)

	perms, err = cache.PermissionsForRole(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"caja.abrir", "menu.ver"}, perms)
	assert.Equal(t, 1, inner.calls, "la segunda lectura debe servirse desde Redis")
}

func TestCachedStore_InvalidateFuerzaRelectura(t *testing.T) {
	inner := &countingStore{perms: []string{"caja.abrir"}}
	cache := setupCache(t, inner, time.Minute)
	ctx := context.Background()

	_, err := cache.PermissionsForRole(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	// Simula una edición del rol: el set crece y la caché se invalida.
	inner.perms = []string{"caja.abrir", "caja.cerrar"}
	cache.Invalidate(ctx, 3)

	perms, err := cache.PermissionsForRole(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Contains(t, perms, "caja.cerrar")
}

func TestCachedStore_TTLExpira(t *testing.T) {
	inner := &countingStore{perms: []string{"reportes.ver"}}
	cache := setupCache(t, inner, time.Second)
	ctx := context.Background()

	_, err := cache.PermissionsForRole(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	time.Sleep(1500 * time.Millisecond)

	_, err = cache.PermissionsForRole(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "tras expirar el TTL se vuelve al store interno")
}
