package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/authz"
	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/model"
	"github.com/lazarohernan/ezorder-backend/internal/service"
)

var errNotFound = errors.New("record not found")

// ── In-memory RolRepository ──────────────────────────────────────────────────

type fakeRolRepo struct {
	roles    map[int64]*model.RolPersonalizado
	permisos map[int64]model.Permiso // catalog by id
	nextID   int64
}

func newFakeRolRepo() *fakeRolRepo {
	return &fakeRolRepo{
		roles:    make(map[int64]*model.RolPersonalizado),
		permisos: make(map[int64]model.Permiso),
		nextID:   1,
	}
}

func (r *fakeRolRepo) agregarPermiso(id int64, nombre, categoria, tipo string) {
	r.permisos[id] = model.Permiso{ID: id, Nombre: nombre, Categoria: categoria, Tipo: tipo}
}

func (r *fakeRolRepo) List(_ context.Context) ([]model.RolPersonalizado, error) {
	var out []model.RolPersonalizado
	for _, rol := range r.roles {
		out = append(out, *rol)
	}
	return out, nil
}

func (r *fakeRolRepo) FindByID(_ context.Context, id int64) (*model.RolPersonalizado, error) {
	rol, ok := r.roles[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *rol
	return &copia, nil
}

func (r *fakeRolRepo) FindByNombre(_ context.Context, nombre string) (*model.RolPersonalizado, error) {
	for _, rol := range r.roles {
		if strings.EqualFold(rol.Nombre, nombre) {
			copia := *rol
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeRolRepo) Create(_ context.Context, rol *model.RolPersonalizado, permisoIDs []int64) error {
	rol.ID = r.nextID
	r.nextID++
	rol.Permisos = r.resolver(permisoIDs)
	copia := *rol
	r.roles[rol.ID] = &copia
	return nil
}

func (r *fakeRolRepo) Update(_ context.Context, id int64, campos map[string]interface{}, permisoIDs *[]int64) error {
	rol, ok := r.roles[id]
	if !ok {
		return errNotFound
	}
	if v, ok := campos["nombre"].(string); ok {
		rol.Nombre = v
	}
	if v, ok := campos["activo"].(bool); ok {
		rol.Activo = v
	}
	if v, ok := campos["color"].(string); ok {
		rol.Color = v
	}
	if permisoIDs != nil {
		rol.Permisos = r.resolver(*permisoIDs)
	}
	return nil
}

func (r *fakeRolRepo) resolver(permisoIDs []int64) []model.Permiso {
	permisos := make([]model.Permiso, 0, len(permisoIDs))
	for _, pid := range permisoIDs {
		if p, ok := r.permisos[pid]; ok {
			permisos = append(permisos, p)
		}
	}
	return permisos
}

func (r *fakeRolRepo) Delete(_ context.Context, id int64) error {
	delete(r.roles, id)
	return nil
}

func (r *fakeRolRepo) ListPermisos(_ context.Context) ([]model.Permiso, error) {
	var out []model.Permiso
	for _, p := range r.permisos {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRolRepo) PermissionsForRole(_ context.Context, rolID int64) ([]string, error) {
	rol, ok := r.roles[rolID]
	if !ok {
		return nil, nil
	}
	nombres := make([]string, len(rol.Permisos))
	for i, p := range rol.Permisos {
		nombres[i] = p.Nombre
	}
	return nombres, nil
}

func (r *fakeRolRepo) RoleIsSuperAdmin(_ context.Context, rolID int64) (bool, error) {
	rol, ok := r.roles[rolID]
	if !ok {
		return false, nil
	}
	return rol.EsSuperAdmin, nil
}

type fakeInvalidator struct {
	invalidados []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, rolID int64) {
	f.invalidados = append(f.invalidados, rolID)
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type rolFixture struct {
	svc         service.RolService
	roles       *fakeRolRepo
	usuarios    *fakeUsuarioRepo
	invalidator *fakeInvalidator
	admin       authz.Principal
}

func newRolFixture() *rolFixture {
	f := &rolFixture{
		roles:       newFakeRolRepo(),
		usuarios:    newFakeUsuarioRepo(),
		invalidator: &fakeInvalidator{},
		admin:       authz.Principal{ID: uuid.New(), RolID: model.RolAdmin},
	}
	resolver := authz.NewResolver(f.roles)
	f.svc = service.NewRolService(f.roles, f.usuarios, resolver, f.invalidator)
	return f
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCreateRol_DefaultsYPermisos(t *testing.T) {
	f := newRolFixture()
	f.roles.agregarPermiso(1, "caja.abrir", "caja", "restaurante")
	f.roles.agregarPermiso(2, "caja.ver", "caja", "restaurante")

	rol, err := f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{
		Nombre:   "Cajero",
		Permisos: []int64{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "Cajero", rol.Nombre)
	assert.Equal(t, "#3B82F6", rol.Color)
	assert.Equal(t, "user", rol.Icono)
	assert.True(t, rol.Activo)
	assert.Len(t, rol.Permisos, 2)
}

func TestCreateRol_NombreDuplicado(t *testing.T) {
	f := newRolFixture()
	_, err := f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{Nombre: "Cajero"})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{Nombre: "cajero"})
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindConflict, apiErr.Kind)
}

func TestUpdateRol_ReemplazaPermisosEInvalidaCache(t *testing.T) {
	f := newRolFixture()
	f.roles.agregarPermiso(1, "caja.abrir", "caja", "restaurante")
	f.roles.agregarPermiso(2, "caja.ver", "caja", "restaurante")
	f.roles.agregarPermiso(3, "roles.ver", "roles", "sistema")

	rol, err := f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{
		Nombre:   "Cajero",
		Permisos: []int64{1, 2},
	})
	require.NoError(t, err)

	nuevos := []int64{3}
	actualizado, err := f.svc.Update(context.Background(), rol.ID, dto.UpdateRolRequest{Permisos: &nuevos})
	require.NoError(t, err)

	require.Len(t, actualizado.Permisos, 1)
	assert.Equal(t, "roles.ver", actualizado.Permisos[0].Nombre)
	assert.Contains(t, f.invalidator.invalidados, rol.ID)
}

func TestUpdateRol_PermisosNilNoTocaElConjunto(t *testing.T) {
	f := newRolFixture()
	f.roles.agregarPermiso(1, "caja.abrir", "caja", "restaurante")

	rol, err := f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{
		Nombre:   "Cajero",
		Permisos: []int64{1},
	})
	require.NoError(t, err)

	nombre := "Cajero Senior"
	actualizado, err := f.svc.Update(context.Background(), rol.ID, dto.UpdateRolRequest{Nombre: &nombre})
	require.NoError(t, err)

	assert.Equal(t, "Cajero Senior", actualizado.Nombre)
	assert.Len(t, actualizado.Permisos, 1)
}

func TestDeleteRol_BloqueadoConUsuarios(t *testing.T) {
	f := newRolFixture()
	rol, err := f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{Nombre: "Cajero"})
	require.NoError(t, err)

	uid := uuid.New()
	f.usuarios.usuarios[uid] = &model.UsuarioInfo{
		ID:                 uid,
		RolID:              model.RolBasico,
		RolPersonalizadoID: &rol.ID,
		Activo:             true,
	}

	err = f.svc.Delete(context.Background(), rol.ID)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindConflict, apiErr.Kind)

	// Still listable after the failed delete.
	_, err = f.svc.Get(context.Background(), rol.ID)
	require.NoError(t, err)
}

func TestDeleteRol_SinUsuarios(t *testing.T) {
	f := newRolFixture()
	rol, err := f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{Nombre: "Temporal"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), rol.ID))
	assert.Contains(t, f.invalidator.invalidados, rol.ID)

	_, err = f.svc.Get(context.Background(), rol.ID)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindNotFound, apiErr.Kind)
}

func TestListPermisos_AgrupaYOrdena(t *testing.T) {
	f := newRolFixture()
	f.roles.agregarPermiso(1, "caja.eliminar", "caja", "restaurante")
	f.roles.agregarPermiso(2, "caja.ver", "caja", "restaurante")
	f.roles.agregarPermiso(3, "caja.crear", "caja", "restaurante")
	f.roles.agregarPermiso(4, "roles.ver", "roles", "sistema")

	agrupados, err := f.svc.ListPermisos(context.Background())
	require.NoError(t, err)

	caja := agrupados["restaurante"]["caja"]
	require.Len(t, caja, 3)
	assert.Equal(t, "caja.ver", caja[0].Nombre)
	assert.Equal(t, "caja.crear", caja[1].Nombre)
	assert.Equal(t, "caja.eliminar", caja[2].Nombre)

	require.Len(t, agrupados["sistema"]["roles"], 1)
}

func TestMisPermisos(t *testing.T) {
	f := newRolFixture()
	f.roles.agregarPermiso(1, "caja.abrir", "caja", "restaurante")
	rol, err := f.svc.Create(context.Background(), f.admin, dto.CreateRolRequest{
		Nombre:   "Cajero",
		Permisos: []int64{1},
	})
	require.NoError(t, err)

	// Admin tier reports wildcard.
	resp, err := f.svc.MisPermisos(context.Background(), f.admin)
	require.NoError(t, err)
	assert.True(t, resp.EsAdmin)
	assert.Equal(t, []string{"*"}, resp.Permisos)

	// Custom-role user reports the role's set.
	cajero := authz.Principal{ID: uuid.New(), RolID: model.RolBasico, RolPersonalizadoID: &rol.ID}
	resp, err = f.svc.MisPermisos(context.Background(), cajero)
	require.NoError(t, err)
	assert.False(t, resp.EsAdmin)
	assert.Equal(t, []string{"caja.abrir"}, resp.Permisos)

	// No role at all: empty set, not an error.
	resp, err = f.svc.MisPermisos(context.Background(), authz.Principal{ID: uuid.New(), RolID: model.RolBasico})
	require.NoError(t, err)
	assert.Empty(t, resp.Permisos)
}
