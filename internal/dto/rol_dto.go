package dto

// CreateRolRequest crea un rol personalizado con su conjunto de permisos.
type CreateRolRequest struct {
	Nombre               string  `json:"nombre" validate:"required,min=2,max=60"`
	Descripcion          *string `json:"descripcion,omitempty"`
	Color                *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icono                *string `json:"icono,omitempty"`
	RequiereCierreManual *bool   `json:"requiere_cierre_manual,omitempty"`
	Permisos             []int64 `json:"permisos"`
}

// UpdateRolRequest actualiza un rol. Permisos nil deja el conjunto intacto;
// un slice vacío lo reemplaza por ninguno.
type UpdateRolRequest struct {
	Nombre               *string  `json:"nombre,omitempty" validate:"omitempty,min=2,max=60"`
	Descripcion          *string  `json:"descripcion,omitempty"`
	Color                *string  `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icono                *string  `json:"icono,omitempty"`
	Activo               *bool    `json:"activo,omitempty"`
	RequiereCierreManual *bool    `json:"requiere_cierre_manual,omitempty"`
	Permisos             *[]int64 `json:"permisos,omitempty"`
}

// PermisoResponse describe un permiso del catálogo.
type PermisoResponse struct {
	ID          int64   `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion,omitempty"`
	Categoria   string  `json:"categoria"`
	Tipo        string  `json:"tipo"`
}

// RolResponse es un rol con sus permisos expandidos.
type RolResponse struct {
	ID                   int64             `json:"id"`
	Nombre               string            `json:"nombre"`
	Descripcion          *string           `json:"descripcion,omitempty"`
	Color                string            `json:"color"`
	Icono                string            `json:"icono"`
	Activo               bool              `json:"activo"`
	EsSuperAdmin         bool              `json:"es_super_admin"`
	RequiereCierreManual bool              `json:"requiere_cierre_manual"`
	Permisos             []PermisoResponse `json:"permisos"`
}

// PermisosAgrupados agrupa el catálogo por tipo y categoría para la pantalla
// de edición de roles: tipo -> categoria -> permisos ordenados por acción.
type PermisosAgrupados map[string]map[string][]PermisoResponse

// MisPermisosResponse expone el conjunto efectivo de un usuario.
type MisPermisosResponse struct {
	EsAdmin  bool     `json:"es_admin"`
	Permisos []string `json:"permisos"`
}
