package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/authz"
	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/model"
	"github.com/lazarohernan/ezorder-backend/internal/repository"
)

// PermisosInvalidator drops cached permission sets after role mutations.
type PermisosInvalidator interface {
	Invalidate(ctx context.Context, rolID int64)
}

type RolService interface {
	List(ctx context.Context) ([]dto.RolResponse, error)
	Get(ctx context.Context, id int64) (*dto.RolResponse, error)
	Create(ctx context.Context, p authz.Principal, req dto.CreateRolRequest) (*dto.RolResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateRolRequest) (*dto.RolResponse, error)
	Delete(ctx context.Context, id int64) error
	ListPermisos(ctx context.Context) (dto.PermisosAgrupados, error)
	// MisPermisos returns the caller's effective permission set for UI gating.
	MisPermisos(ctx context.Context, p authz.Principal) (*dto.MisPermisosResponse, error)
}

type rolService struct {
	roles       repository.RolRepository
	usuarios    repository.UsuarioRepository
	resolver    *authz.Resolver
	invalidator PermisosInvalidator
}

func NewRolService(
	roles repository.RolRepository,
	usuarios repository.UsuarioRepository,
	resolver *authz.Resolver,
	invalidator PermisosInvalidator,
) RolService {
	return &rolService{roles: roles, usuarios: usuarios, resolver: resolver, invalidator: invalidator}
}

func (s *rolService) List(ctx context.Context) ([]dto.RolResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar los roles")
	}
	out := make([]dto.RolResponse, len(roles))
	for i := range roles {
		out[i] = toRolResponse(&roles[i])
	}
	return out, nil
}

func (s *rolService) Get(ctx context.Context, id int64) (*dto.RolResponse, error) {
	rol, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("rol no encontrado")
	}
	resp := toRolResponse(rol)
	return &resp, nil
}

func (s *rolService) Create(ctx context.Context, p authz.Principal, req dto.CreateRolRequest) (*dto.RolResponse, error) {
	existente, err := s.roles.FindByNombre(ctx, req.Nombre)
	if err != nil {
		return nil, apierror.Internal("no se pudo verificar el nombre del rol")
	}
	if existente != nil {
		return nil, apierror.Conflict("Ya existe un rol con ese nombre")
	}

	rol := &model.RolPersonalizado{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Color:       "#3B82F6",
		Icono:       "user",
		Activo:      true,
		CreatedBy:   &p.ID,
	}
	if req.Color != nil {
		rol.Color = *req.Color
	}
	if req.Icono != nil {
		rol.Icono = *req.Icono
	}
	if req.RequiereCierreManual != nil {
		rol.RequiereCierreManual = *req.RequiereCierreManual
	}

	if err := s.roles.Create(ctx, rol, req.Permisos); err != nil {
		return nil, apierror.Internal("no se pudo crear el rol")
	}
	return s.Get(ctx, rol.ID)
}

func (s *rolService) Update(ctx context.Context, id int64, req dto.UpdateRolRequest) (*dto.RolResponse, error) {
	rol, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("rol no encontrado")
	}

	if req.Nombre != nil && !strings.EqualFold(*req.Nombre, rol.Nombre) {
		duplicado, err := s.roles.FindByNombre(ctx, *req.Nombre)
		if err != nil {
			return nil, apierror.Internal("no se pudo verificar el nombre del rol")
		}
		if duplicado != nil && duplicado.ID != id {
			return nil, apierror.Conflict("Ya existe un rol con ese nombre")
		}
	}

	campos := map[string]interface{}{}
	if req.Nombre != nil {
		campos["nombre"] = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		campos["descripcion"] = *req.Descripcion
	}
	if req.Color != nil {
		campos["color"] = *req.Color
	}
	if req.Icono != nil {
		campos["icono"] = *req.Icono
	}
	if req.Activo != nil {
		campos["activo"] = *req.Activo
	}
	if req.RequiereCierreManual != nil {
		campos["requiere_cierre_manual"] = *req.RequiereCierreManual
	}

	if err := s.roles.Update(ctx, id, campos, req.Permisos); err != nil {
		return nil, apierror.Internal("no se pudo actualizar el rol")
	}

	s.invalidar(ctx, id)
	return s.Get(ctx, id)
}

func (s *rolService) Delete(ctx context.Context, id int64) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return apierror.NotFound("rol no encontrado")
	}

	usuarios, err := s.usuarios.CountByRolPersonalizado(ctx, id)
	if err != nil {
		return apierror.Internal("no se pudo verificar los usuarios del rol")
	}
	if usuarios > 0 {
		return apierror.Conflict("No se puede eliminar el rol: hay usuarios que lo tienen asignado").
			WithMeta("usuarios_asignados", usuarios)
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return apierror.Internal("no se pudo eliminar el rol")
	}
	s.invalidar(ctx, id)
	return nil
}

func (s *rolService) invalidar(ctx context.Context, rolID int64) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, rolID)
	}
}

// ListPermisos groups the catalog as tipo -> categoria -> permisos, with
// actions inside a category in UI order (ver, crear, editar, eliminar, rest).
func (s *rolService) ListPermisos(ctx context.Context) (dto.PermisosAgrupados, error) {
	permisos, err := s.roles.ListPermisos(ctx)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar los permisos")
	}

	agrupados := dto.PermisosAgrupados{}
	for _, p := range permisos {
		if agrupados[p.Tipo] == nil {
			agrupados[p.Tipo] = map[string][]dto.PermisoResponse{}
		}
		agrupados[p.Tipo][p.Categoria] = append(agrupados[p.Tipo][p.Categoria], dto.PermisoResponse{
			ID:          p.ID,
			Nombre:      p.Nombre,
			Descripcion: p.Descripcion,
			Categoria:   p.Categoria,
			Tipo:        p.Tipo,
		})
	}
	for _, categorias := range agrupados {
		for _, lista := range categorias {
			sort.SliceStable(lista, func(i, j int) bool {
				return ordenAccion(lista[i].Nombre) < ordenAccion(lista[j].Nombre)
			})
		}
	}
	return agrupados, nil
}

// ordenAccion ranks the action suffix for presentation.
func ordenAccion(nombre string) int {
	accion := nombre
	if i := strings.LastIndex(nombre, "."); i >= 0 {
		accion = nombre[i+1:]
	}
	switch accion {
	case "ver":
		return 0
	case "crear":
		return 1
	case "editar":
		return 2
	case "eliminar":
		return 3
	default:
		return 4
	}
}

func (s *rolService) MisPermisos(ctx context.Context, p authz.Principal) (*dto.MisPermisosResponse, error) {
	esAdmin, err := s.resolver.IsAdminTier(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("usuario_id", p.ID.String()).Msg("no se pudo resolver el tier del usuario")
		return nil, apierror.Unavailable("permisos no disponibles, intenta de nuevo")
	}
	if esAdmin {
		return &dto.MisPermisosResponse{EsAdmin: true, Permisos: []string{"*"}}, nil
	}
	if p.RolPersonalizadoID == nil {
		return &dto.MisPermisosResponse{Permisos: []string{}}, nil
	}
	permisos, err := s.roles.PermissionsForRole(ctx, *p.RolPersonalizadoID)
	if err != nil {
		return nil, apierror.Unavailable("permisos no disponibles, intenta de nuevo")
	}
	return &dto.MisPermisosResponse{Permisos: permisos}, nil
}

func toRolResponse(rol *model.RolPersonalizado) dto.RolResponse {
	permisos := make([]dto.PermisoResponse, len(rol.Permisos))
	for i, p := range rol.Permisos {
		permisos[i] = dto.PermisoResponse{
			ID:          p.ID,
			Nombre:      p.Nombre,
			Descripcion: p.Descripcion,
			Categoria:   p.Categoria,
			Tipo:        p.Tipo,
		}
	}
	return dto.RolResponse{
		ID:                   rol.ID,
		Nombre:               rol.Nombre,
		Descripcion:          rol.Descripcion,
		Color:                rol.Color,
		Icono:                rol.Icono,
		Activo:               rol.Activo,
		EsSuperAdmin:         rol.EsSuperAdmin,
		RequiereCierreManual: rol.RequiereCierreManual,
		Permisos:             permisos,
	}
}
