package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment method ids used by the pedidos ledger.
const (
	MetodoPagoEfectivo      = 1
	MetodoPagoPOS           = 2
	MetodoPagoTransferencia = 3
)

// Pedido is a sale record. The cash subsystem only reads paid pedidos to
// aggregate daily totals per payment method; order lifecycle is owned
// elsewhere.
type Pedido struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestauranteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPagoID  int             `gorm:"not null"`
	Pagado        bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time       `gorm:"index"`
}

func (Pedido) TableName() string { return "pedidos" }

// Gasto is an expense record, read-only to the cash subsystem.
type Gasto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestauranteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion   *string
	FechaGasto    time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
}

func (Gasto) TableName() string { return "gastos" }
