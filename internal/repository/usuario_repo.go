package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lazarohernan/ezorder-backend/internal/model"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.UsuarioInfo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UsuarioInfo, error)
	FindByEmail(ctx context.Context, email string) (*model.UsuarioInfo, error)
	// NombresPorIDs resolves user display names in one query, for response
	// enrichment.
	NombresPorIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	// RestaurantesDeUsuario lists the restaurant ids the user can operate.
	RestaurantesDeUsuario(ctx context.Context, usuarioID uuid.UUID) ([]uuid.UUID, error)
	CountByRolPersonalizado(ctx context.Context, rolID int64) (int64, error)
	// AdminEmails returns active tier-1/tier-2 users' addresses for
	// end-of-day notifications.
	AdminEmails(ctx context.Context) ([]string, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.UsuarioInfo) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.UsuarioInfo, error) {
	var u model.UsuarioInfo
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.UsuarioInfo, error) {
	var u model.UsuarioInfo
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) NombresPorIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	type fila struct {
		ID            uuid.UUID
		NombreUsuario string
	}
	var filas []fila
	err := r.db.WithContext(ctx).
		Model(&model.UsuarioInfo{}).
		Select("id, nombre_usuario").
		Where("id IN ?", ids).
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	nombres := make(map[uuid.UUID]string, len(filas))
	for _, f := range filas {
		nombres[f.ID] = f.NombreUsuario
	}
	return nombres, nil
}

func (r *usuarioRepo) RestaurantesDeUsuario(ctx context.Context, usuarioID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.UsuarioRestaurante{}).
		Where("usuario_id = ?", usuarioID).
		Pluck("restaurante_id", &ids).Error
	return ids, err
}

func (r *usuarioRepo) CountByRolPersonalizado(ctx context.Context, rolID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UsuarioInfo{}).
		Where("rol_personalizado_id = ?", rolID).
		Count(&count).Error
	return count, err
}

func (r *usuarioRepo) AdminEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&model.UsuarioInfo{}).
		Where("rol_id IN ? AND activo = true", []int{model.RolSuperAdmin, model.RolAdmin}).
		Pluck("email", &emails).Error
	return emails, err
}
