package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/model"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	// FindAbiertaPorRestaurante returns (nil, nil) when no open session exists.
	FindAbiertaPorRestaurante(ctx context.Context, restauranteID uuid.UUID) (*model.Caja, error)
	UltimaCerrada(ctx context.Context, restauranteID uuid.UUID) (*model.Caja, error)
	// ActualizarAbierta applies campos only while the session is still open.
	// Returns false when the row was already closed (or gone).
	ActualizarAbierta(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (bool, error)
	// Cerrar transitions abierta -> cerrada atomically. Returns false when the
	// session was closed by a concurrent request.
	Cerrar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (bool, error)
	List(ctx context.Context, filter dto.CajaFilter, restauranteIDs []uuid.UUID) ([]model.Caja, int64, error)
	ListAbiertas(ctx context.Context, restauranteIDs []uuid.UUID) ([]model.Caja, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Preload("Restaurante").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) FindAbiertaPorRestaurante(ctx context.Context, restauranteID uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Where("restaurante_id = ? AND estado = ?", restauranteID, model.CajaAbierta).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) UltimaCerrada(ctx context.Context, restauranteID uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Where("restaurante_id = ? AND estado = ?", restauranteID, model.CajaCerrada).
		Order("fecha_cierre DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) ActualizarAbierta(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Caja{}).
		Where("id = ? AND estado = ?", id, model.CajaAbierta).
		Updates(campos)
	return res.RowsAffected > 0, res.Error
}

func (r *cajaRepo) Cerrar(ctx context.Context, id uuid.UUID, campos map[string]interface{}) (bool, error) {
	campos["estado"] = model.CajaCerrada
	res := r.db.WithContext(ctx).
		Model(&model.Caja{}).
		Where("id = ? AND estado = ?", id, model.CajaAbierta).
		Updates(campos)
	return res.RowsAffected > 0, res.Error
}

func (r *cajaRepo) List(ctx context.Context, filter dto.CajaFilter, restauranteIDs []uuid.UUID) ([]model.Caja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Caja{})
	if restauranteIDs != nil {
		q = q.Where("restaurante_id IN ?", restauranteIDs)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.RestauranteID != "" {
		q = q.Where("restaurante_id = ?", filter.RestauranteID)
	}
	if filter.FechaDesde != nil {
		q = q.Where("fecha_apertura >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		q = q.Where("fecha_apertura <= ?", *filter.FechaHasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cajas []model.Caja
	err := q.Order("fecha_apertura DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&cajas).Error
	return cajas, total, err
}

func (r *cajaRepo) ListAbiertas(ctx context.Context, restauranteIDs []uuid.UUID) ([]model.Caja, error) {
	q := r.db.WithContext(ctx).Where("estado = ?", model.CajaAbierta)
	if restauranteIDs != nil {
		q = q.Where("restaurante_id IN ?", restauranteIDs)
	}
	var cajas []model.Caja
	err := q.Order("fecha_apertura DESC").Find(&cajas).Error
	return cajas, err
}
