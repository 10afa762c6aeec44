package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/model"
)

// LedgerRepository reads the sales and expense ledgers the reconciliation
// depends on. The cash subsystem never writes to these tables.
type LedgerRepository interface {
	// VentasPorMetodo sums paid pedidos per payment method inside the window.
	VentasPorMetodo(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) (dto.VentasPorMetodo, error)
	// TotalGastos sums expenses for the restaurant inside the window.
	TotalGastos(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error)
	ListGastos(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) ([]model.Gasto, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) VentasPorMetodo(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) (dto.VentasPorMetodo, error) {
	type fila struct {
		MetodoPagoID int
		Total        decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).
		Model(&model.Pedido{}).
		Select("metodo_pago_id, COALESCE(SUM(total), 0) AS total").
		Where("restaurante_id = ? AND pagado = true AND created_at >= ? AND created_at <= ?",
			restauranteID, desde, hasta).
		Group("metodo_pago_id").
		Scan(&filas).Error
	if err != nil {
		return dto.VentasPorMetodo{}, err
	}

	ventas := dto.VentasPorMetodo{
		Efectivo:      decimal.Zero,
		POS:           decimal.Zero,
		Transferencia: decimal.Zero,
		Total:         decimal.Zero,
	}
	for _, f := range filas {
		switch f.MetodoPagoID {
		case model.MetodoPagoEfectivo:
			ventas.Efectivo = f.Total
		case model.MetodoPagoPOS:
			ventas.POS = f.Total
		case model.MetodoPagoTransferencia:
			ventas.Transferencia = f.Total
		}
		ventas.Total = ventas.Total.Add(f.Total)
	}
	return ventas, nil
}

func (r *ledgerRepo) TotalGastos(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Gasto{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("restaurante_id = ? AND fecha_gasto >= ? AND fecha_gasto <= ?", restauranteID, desde, hasta).
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepo) ListGastos(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).
		Where("restaurante_id = ? AND fecha_gasto >= ? AND fecha_gasto <= ?", restauranteID, desde, hasta).
		Order("fecha_gasto ASC").
		Find(&gastos).Error
	return gastos, err
}
