package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	perms      map[int64][]string
	superAdmin map[int64]bool
	err        error
}

func (f *fakeStore) PermissionsForRole(_ context.Context, rolID int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.perms[rolID], nil
}

func (f *fakeStore) RoleIsSuperAdmin(_ context.Context, rolID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.superAdmin[rolID], nil
}

func rolPtr(id int64) *int64 { return &id }

func TestAuthorize_SuperAdminBypass(t *testing.T) {
	r := NewResolver(&fakeStore{err: errors.New("db down")})

	// Tier checks never touch the store, even when it is broken.
	d, err := r.Authorize(context.Background(), Principal{RolID: 1}, []string{"caja.abrir"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(context.Background(), Principal{RolID: 3, EsSuperAdmin: true}, []string{"roles.eliminar"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(context.Background(), Principal{RolID: 2}, []string{"caja.cerrar"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestAuthorize_HomeRestaurantAllowance(t *testing.T) {
	r := NewResolver(&fakeStore{})
	restID := uuid.New()
	p := Principal{RolID: 3, RestauranteID: &restID}

	d, err := r.Authorize(context.Background(), p, []string{PermVerRestaurantes})
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// Only when restaurantes.ver is the sole requirement.
	d, err = r.Authorize(context.Background(), p, []string{PermVerRestaurantes, "caja.abrir"})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestAuthorize_SinRolPersonalizado(t *testing.T) {
	r := NewResolver(&fakeStore{})

	d, err := r.Authorize(context.Background(), Principal{RolID: 3}, []string{"caja.abrir"})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "Contacta al administrador")
}

func TestAuthorize_RolePermissions(t *testing.T) {
	store := &fakeStore{perms: map[int64][]string{
		10: {"caja.abrir", "caja.ver"},
		11: {"caja.*"},
		12: {"*"},
	}}
	r := NewResolver(store)

	d, err := r.Authorize(context.Background(), Principal{RolID: 3, RolPersonalizadoID: rolPtr(10)}, []string{"caja.abrir"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(context.Background(), Principal{RolID: 3, RolPersonalizadoID: rolPtr(10)}, []string{"caja.cerrar"})
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	d, err = r.Authorize(context.Background(), Principal{RolID: 3, RolPersonalizadoID: rolPtr(11)}, []string{"caja.cerrar"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(context.Background(), Principal{RolID: 3, RolPersonalizadoID: rolPtr(12)}, []string{"roles.eliminar"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestAuthorize_MenuImpliesVisibilidad(t *testing.T) {
	store := &fakeStore{perms: map[int64][]string{10: {"menu.editar"}}}
	r := NewResolver(store)
	p := Principal{RolID: 3, RolPersonalizadoID: rolPtr(10)}

	d, err := r.Authorize(context.Background(), p, []string{PermVerRestaurantes})
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(context.Background(), p, []string{PermVerCategorias})
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(context.Background(), p, []string{"caja.abrir"})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestAuthorize_StoreFailureIsNotDenial(t *testing.T) {
	r := NewResolver(&fakeStore{err: errors.New("connection refused")})
	p := Principal{RolID: 3, RolPersonalizadoID: rolPtr(10)}

	_, err := r.Authorize(context.Background(), p, []string{"caja.abrir"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestIsAdminTier(t *testing.T) {
	store := &fakeStore{superAdmin: map[int64]bool{20: true, 21: false}}
	r := NewResolver(store)

	ok, err := r.IsAdminTier(context.Background(), Principal{RolID: 2})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsAdminTier(context.Background(), Principal{RolID: 3, RolPersonalizadoID: rolPtr(20)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsAdminTier(context.Background(), Principal{RolID: 3, RolPersonalizadoID: rolPtr(21)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.IsAdminTier(context.Background(), Principal{RolID: 3})
	require.NoError(t, err)
	assert.False(t, ok)
}
