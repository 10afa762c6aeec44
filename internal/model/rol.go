package model

import (
	"time"

	"github.com/google/uuid"
)

// Permiso is a grantable permission token of the form "<recurso>.<accion>"
// (e.g. "caja.abrir"). Tipo groups system-level vs restaurant-level
// permissions for presentation.
type Permiso struct {
	ID          int64  `gorm:"primaryKey"`
	Nombre      string `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Categoria   string `gorm:"not null"`
	Tipo        string `gorm:"type:varchar(20);not null;default:'restaurante'"` // sistema | restaurante
}

func (Permiso) TableName() string { return "permisos" }

// RolPersonalizado is an admin-defined role carrying a set of permissions.
// Deleting a role is blocked while any usuarios_info row references it.
type RolPersonalizado struct {
	ID          int64  `gorm:"primaryKey"`
	Nombre      string `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Color       string `gorm:"type:varchar(20);not null;default:'#3B82F6'"`
	Icono       string `gorm:"type:varchar(50);not null;default:'user'"`
	Activo      bool   `gorm:"not null;default:true"`
	// EsSuperAdmin grants the role full administrative access regardless of its
	// permission set.
	EsSuperAdmin bool `gorm:"not null;default:false"`
	// RequiereCierreManual forces users with this role to close the caja by hand
	// at end of shift.
	RequiereCierreManual bool       `gorm:"not null;default:false"`
	CreatedBy            *uuid.UUID `gorm:"type:uuid"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Permisos []Permiso `gorm:"many2many:rol_permisos;joinForeignKey:rol_id;joinReferences:permiso_id"`
}

func (RolPersonalizado) TableName() string { return "roles_personalizados" }
