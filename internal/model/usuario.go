package model

import (
	"time"

	"github.com/google/uuid"
)

// Role tiers carried in usuarios_info.rol_id.
const (
	RolSuperAdmin = 1
	RolAdmin      = 2
	RolBasico     = 3
)

// UsuarioInfo stores system users. RolID is the coarse tier; fine-grained
// access for tier-3 users comes from RolPersonalizadoID. RestauranteID is the
// user's home restaurant (nil for multi-restaurant admins).
type UsuarioInfo struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email              string     `gorm:"uniqueIndex;not null"`
	NombreUsuario      string     `gorm:"not null"`
	PasswordHash       string     `gorm:"not null"`
	RolID              int        `gorm:"not null;default:3"`
	EsSuperAdmin       bool       `gorm:"not null;default:false"`
	RolPersonalizadoID *int64     `gorm:"index"`
	RestauranteID      *uuid.UUID `gorm:"type:uuid"`
	Activo             bool       `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (UsuarioInfo) TableName() string { return "usuarios_info" }

// UsuarioRestaurante links a user to a restaurant they can operate, with an
// ownership flag. Admin-tier access is scoped to this membership set.
type UsuarioRestaurante struct {
	UsuarioID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestauranteID uuid.UUID `gorm:"type:uuid;primaryKey"`
	EsPropietario bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

func (UsuarioRestaurante) TableName() string { return "usuarios_restaurantes" }
