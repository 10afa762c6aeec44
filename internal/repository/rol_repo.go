package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lazarohernan/ezorder-backend/internal/authz"
	"github.com/lazarohernan/ezorder-backend/internal/model"
)

type RolRepository interface {
	List(ctx context.Context) ([]model.RolPersonalizado, error)
	FindByID(ctx context.Context, id int64) (*model.RolPersonalizado, error)
	FindByNombre(ctx context.Context, nombre string) (*model.RolPersonalizado, error)
	// Create inserts the role and its permission associations in one
	// transaction.
	Create(ctx context.Context, rol *model.RolPersonalizado, permisoIDs []int64) error
	// Update applies campos and, when permisoIDs is non-nil, replaces the
	// whole permission set.
	Update(ctx context.Context, id int64, campos map[string]interface{}, permisoIDs *[]int64) error
	Delete(ctx context.Context, id int64) error
	ListPermisos(ctx context.Context) ([]model.Permiso, error)

	// authz.PermissionStore
	PermissionsForRole(ctx context.Context, rolID int64) ([]string, error)
	RoleIsSuperAdmin(ctx context.Context, rolID int64) (bool, error)
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) List(ctx context.Context) ([]model.RolPersonalizado, error) {
	var roles []model.RolPersonalizado
	err := r.db.WithContext(ctx).Preload("Permisos").Order("nombre ASC").Find(&roles).Error
	return roles, err
}

func (r *rolRepo) FindByID(ctx context.Context, id int64) (*model.RolPersonalizado, error) {
	var rol model.RolPersonalizado
	if err := r.db.WithContext(ctx).Preload("Permisos").First(&rol, id).Error; err != nil {
		return nil, err
	}
	return &rol, nil
}

func (r *rolRepo) FindByNombre(ctx context.Context, nombre string) (*model.RolPersonalizado, error) {
	var rol model.RolPersonalizado
	err := r.db.WithContext(ctx).First(&rol, "LOWER(nombre) = LOWER(?)", nombre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rol, nil
}

func (r *rolRepo) Create(ctx context.Context, rol *model.RolPersonalizado, permisoIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rol).Error; err != nil {
			return err
		}
		return replacePermisos(tx, rol, permisoIDs)
	})
}

func (r *rolRepo) Update(ctx context.Context, id int64, campos map[string]interface{}, permisoIDs *[]int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(campos) > 0 {
			if err := tx.Model(&model.RolPersonalizado{}).Where("id = ?", id).Updates(campos).Error; err != nil {
				return err
			}
		}
		if permisoIDs != nil {
			rol := model.RolPersonalizado{ID: id}
			return replacePermisos(tx, &rol, *permisoIDs)
		}
		return nil
	})
}

func replacePermisos(tx *gorm.DB, rol *model.RolPersonalizado, permisoIDs []int64) error {
	if permisoIDs == nil {
		permisoIDs = []int64{}
	}
	permisos := make([]model.Permiso, len(permisoIDs))
	for i, pid := range permisoIDs {
		permisos[i] = model.Permiso{ID: pid}
	}
	if err := tx.Model(rol).Association("Permisos").Replace(permisos); err != nil {
		return fmt.Errorf("reemplazando permisos del rol %d: %w", rol.ID, err)
	}
	return nil
}

func (r *rolRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rol := model.RolPersonalizado{ID: id}
		if err := tx.Model(&rol).Association("Permisos").Clear(); err != nil {
			return err
		}
		return tx.Delete(&rol).Error
	})
}

func (r *rolRepo) ListPermisos(ctx context.Context) ([]model.Permiso, error) {
	var permisos []model.Permiso
	err := r.db.WithContext(ctx).Order("tipo ASC, categoria ASC, nombre ASC").Find(&permisos).Error
	return permisos, err
}

func (r *rolRepo) PermissionsForRole(ctx context.Context, rolID int64) ([]string, error) {
	var nombres []string
	err := r.db.WithContext(ctx).
		Model(&model.Permiso{}).
		Joins("JOIN rol_permisos rp ON rp.permiso_id = permisos.id").
		Where("rp.rol_id = ?", rolID).
		Pluck("permisos.nombre", &nombres).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authz.ErrStoreUnavailable, err)
	}
	return nombres, nil
}

func (r *rolRepo) RoleIsSuperAdmin(ctx context.Context, rolID int64) (bool, error) {
	var rol model.RolPersonalizado
	err := r.db.WithContext(ctx).Select("es_super_admin").First(&rol, rolID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", authz.ErrStoreUnavailable, err)
	}
	return rol.EsSuperAdmin, nil
}
