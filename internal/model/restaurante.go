package model

import (
	"time"

	"github.com/google/uuid"
)

type Restaurante struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreRestaurante string    `gorm:"not null"`
	Activo            bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Restaurante) TableName() string { return "restaurantes" }
