package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Well-known permissions referenced by the resolver's special cases.
const (
	PermVerRestaurantes = "restaurantes.ver"
	PermVerCategorias   = "categorias.ver"
)

// ErrStoreUnavailable marks a permission-store failure. Callers must surface
// it as a 5xx, never as a denial.
var ErrStoreUnavailable = errors.New("almacen de permisos no disponible")

// Principal is the authenticated actor, derived from the bearer token at
// authentication time and immutable for the request lifetime.
type Principal struct {
	ID                 uuid.UUID
	Email              string
	RolID              int // 1=super admin, 2=admin, 3=basic
	EsSuperAdmin       bool
	RolPersonalizadoID *int64
	RestauranteID      *uuid.UUID // home restaurant, nil for multi-restaurant users
}

// PermissionStore reads role→permission associations. Implementations must
// wrap infrastructure failures in ErrStoreUnavailable.
type PermissionStore interface {
	PermissionsForRole(ctx context.Context, rolID int64) ([]string, error)
	RoleIsSuperAdmin(ctx context.Context, rolID int64) (bool, error)
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Resolver decides allow/deny for a principal against a required permission
// set. It is pure except for the permission-store read.
type Resolver struct {
	store PermissionStore
}

func NewResolver(store PermissionStore) *Resolver {
	return &Resolver{store: store}
}

// Authorize applies the resolution order:
//  1. super admin tier → allow
//  2. admin tier → allow (restaurant scoping is the caller's job)
//  3. home restaurant + only "restaurantes.ver" required → allow
//  4. no custom role → deny
//  5. fetch role permissions; "menu.*" grants imply restaurant/category
//     visibility; otherwise wildcard/exact matching decides.
//
// A store failure returns an error wrapping ErrStoreUnavailable — it is not
// a denial.
func (r *Resolver) Authorize(ctx context.Context, p Principal, required []string) (Decision, error) {
	if p.RolID == 1 || p.EsSuperAdmin {
		return allow(), nil
	}
	if p.RolID == 2 {
		return allow(), nil
	}

	// Escape hatch: a user tied to a restaurant may always see it.
	if p.RestauranteID != nil && len(required) == 1 && required[0] == PermVerRestaurantes {
		return allow(), nil
	}

	if p.RolPersonalizadoID == nil {
		return deny("No tienes permisos para realizar esta accion. Contacta al administrador para que te asigne un rol."), nil
	}

	raw, err := r.store.PermissionsForRole(ctx, *p.RolPersonalizadoID)
	if err != nil {
		return Decision{}, asStoreErr(err)
	}

	// Menu permissions imply restaurant/category visibility: the menu screens
	// cannot render without them. Kept for behavioral parity; flagged for
	// product review in DESIGN.md.
	if containsAny(required, PermVerRestaurantes, PermVerCategorias) {
		for _, name := range raw {
			if strings.HasPrefix(name, "menu.") {
				return allow(), nil
			}
		}
	}

	if AnyMatches(ParseAll(required), ParseAll(raw)) {
		return allow(), nil
	}
	return deny("No tienes permisos para realizar esta accion"), nil
}

// IsAdminTier reports whether the principal has full administrative access:
// tier 1 or 2, the super-admin flag, or a custom role marked es_super_admin.
func (r *Resolver) IsAdminTier(ctx context.Context, p Principal) (bool, error) {
	if p.RolID == 1 || p.RolID == 2 || p.EsSuperAdmin {
		return true, nil
	}
	if p.RolPersonalizadoID == nil {
		return false, nil
	}
	ok, err := r.store.RoleIsSuperAdmin(ctx, *p.RolPersonalizadoID)
	if err != nil {
		return false, asStoreErr(err)
	}
	return ok, nil
}

// asStoreErr guarantees the ErrStoreUnavailable mark without double wrapping.
func asStoreErr(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func containsAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
