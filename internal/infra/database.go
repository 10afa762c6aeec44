package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lazarohernan/ezorder-backend/internal/model"
)

// Databases holds the two GORM connections the service runs on. Admin uses
// the privileged DSN and is reserved for migrations, seeding and the ledger
// aggregations. Scoped uses the restricted DSN for everything user-facing;
// when no scoped DSN is configured it falls back to Admin.
type Databases struct {
	Admin  *gorm.DB
	Scoped *gorm.DB
}

// NewDatabases opens both connections. scopedDSN may be empty.
func NewDatabases(adminDSN, scopedDSN string) (*Databases, error) {
	admin, err := open(adminDSN)
	if err != nil {
		return nil, fmt.Errorf("admin db: %w", err)
	}

	scoped := admin
	if scopedDSN != "" && scopedDSN != adminDSN {
		scoped, err = open(scopedDSN)
		if err != nil {
			return nil, fmt.Errorf("scoped db: %w", err)
		}
	}

	return &Databases{Admin: admin, Scoped: scoped}, nil
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations runs AutoMigrate for every model and then applies the
// idempotent SQL patches GORM cannot express. Always uses the privileged
// connection.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Restaurante{},
		&model.UsuarioInfo{},
		&model.UsuarioRestaurante{},
		&model.Permiso{},
		&model.RolPersonalizado{},
		&model.Pedido{},
		&model.Gasto{},
		&model.Caja{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running on an already
// patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one open caja per restaurant. This partial unique index is
		// the authoritative guard; service-level pre-checks only improve the
		// error message.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_caja_abierta_por_restaurante
		     ON caja (restaurante_id)
		     WHERE estado = 'abierta'`,
		// Speeds up the per-session ledger aggregation at close time.
		`CREATE INDEX IF NOT EXISTS idx_pedidos_pagados_por_fecha
		     ON pedidos (restaurante_id, created_at)
		     WHERE pagado = true`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
