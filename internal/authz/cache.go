package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CachedStore is a read-through Redis cache in front of a PermissionStore.
// Permission sets change rarely (role edits) but are read on every request
// from a custom-role user; a short TTL plus explicit invalidation on role
// updates keeps staleness bounded. Cache failures fall through to the inner
// store — Redis being down must not break authorization.
type CachedStore struct {
	inner PermissionStore
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedStore(inner PermissionStore, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl}
}

func permisosKey(rolID int64) string { return fmt.Sprintf("authz:rol:%d:permisos", rolID) }

func (c *CachedStore) PermissionsForRole(ctx context.Context, rolID int64) ([]string, error) {
	key := permisosKey(rolID)
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var perms []string
		if json.Unmarshal([]byte(cached), &perms) == nil {
			return perms, nil
		}
	}

	perms, err := c.inner.PermissionsForRole(ctx, rolID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(perms); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Debug().Err(err).Int64("rol_id", rolID).Msg("authz cache: set failed")
		}
	}
	return perms, nil
}

func (c *CachedStore) RoleIsSuperAdmin(ctx context.Context, rolID int64) (bool, error) {
	// Cheap single-row read; not worth caching.
	return c.inner.RoleIsSuperAdmin(ctx, rolID)
}

// Invalidate drops the cached permission set for a role. Called after role
// updates and deletions.
func (c *CachedStore) Invalidate(ctx context.Context, rolID int64) {
	if err := c.rdb.Del(ctx, permisosKey(rolID)).Err(); err != nil {
		log.Warn().Err(err).Int64("rol_id", rolID).Msg("authz cache: invalidate failed")
	}
}
