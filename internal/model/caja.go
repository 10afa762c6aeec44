package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estado values for a Caja.
const (
	CajaAbierta = "abierta"
	CajaCerrada = "cerrada"
)

// EstadoCuadre values recorded at close time.
const (
	CuadreCuadrada    = "cuadrada"
	CuadreDescuadrada = "descuadrada"
)

// Caja is one cash-register session for one restaurant.
// At most one caja with Estado=abierta may exist per restaurant; the partial
// unique index uq_caja_abierta_por_restaurante (see infra.applySchemaPatches)
// is the authoritative guard — the service-level pre-check only produces a
// friendlier error.
type Caja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestauranteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	MontoInicial  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'abierta';index"`
	FechaApertura time.Time       `gorm:"not null;index"`
	FechaCierre   *time.Time

	// Accrued while open (manual adjustments)
	TotalIngresos decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalEgresos  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Observaciones *string

	// Close-time figures. Declared values come from the user counting the till;
	// sistema values are computed from the pedidos/gastos ledgers; diferencias
	// are declared minus sistema. Optional channels stay NULL when not declared.
	MontoFinal                    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalVentas                   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EfectivoDeclarado             *decimal.Decimal `gorm:"type:decimal(12,2)"`
	VentasPosDeclaradas           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	VentasTransferenciaDeclaradas *decimal.Decimal `gorm:"type:decimal(12,2)"`
	GastosDeclarados              *decimal.Decimal `gorm:"type:decimal(12,2)"`
	VentasEfectivoDeclaradas      *decimal.Decimal `gorm:"type:decimal(12,2)"`

	EfectivoSistema            *decimal.Decimal `gorm:"type:decimal(12,2)"`
	VentasEfectivoSistema      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	VentasPosSistema           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	VentasTransferenciaSistema *decimal.Decimal `gorm:"type:decimal(12,2)"`
	GastosSistema              *decimal.Decimal `gorm:"type:decimal(12,2)"`

	DiferenciaEfectivo       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferenciaPos            *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferenciaTransferencia  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferenciaGastos         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferenciaVentasEfectivo *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferenciaTotal          *decimal.Decimal `gorm:"type:decimal(12,2)"`

	// EstadoCuadre: "cuadrada" | "descuadrada"
	EstadoCuadre *string `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Restaurante *Restaurante `gorm:"foreignKey:RestauranteID"`
}

func (Caja) TableName() string { return "caja" }
