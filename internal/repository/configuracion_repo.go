package repository

import (
	"context"
	"errors"

	"facturapos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfiguracionRepository interface {
	// Find returns the tenant row, or gorm.ErrRecordNotFound for a fresh
	// tenant (callers treat that as all-defaults).
	Find(ctx context.Context, userID string) (*model.Configuracion, error)
	// FindForUpdateTx locks the tenant row inside tx (SELECT … FOR UPDATE),
	// serializing concurrent invoice issuances per tenant. A tenant with no
	// configuracion row gets one seeded with defaults first, so the lock
	// always has a row to land on — two concurrent first sales serialize on
	// the seed insert instead of both proceeding counter-less.
	FindForUpdateTx(tx *gorm.DB, userID string) (*model.Configuracion, error)
	// Upsert merges the given fields into the tenant row, creating it when
	// absent. Zero-valued fields not listed in cols are left untouched.
	Upsert(ctx context.Context, cfg *model.Configuracion, cols []string) error
	// UpdateContadorTx advances the invoice counter inside tx, creating the
	// row with defaults when the tenant never saved a configuration.
	UpdateContadorTx(tx *gorm.DB, userID string, contador string) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Find(ctx context.Context, userID string) (*model.Configuracion, error) {
	var cfg model.Configuracion
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cfg).Error
	return &cfg, err
}

func (r *configuracionRepo) FindForUpdateTx(tx *gorm.DB, userID string) (*model.Configuracion, error) {
	var cfg model.Configuracion
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Fresh tenant: SELECT FOR UPDATE on zero rows locks nothing. Seed the
	// row (column defaults fill in) and re-select under the lock; the loser
	// of a concurrent seed blocks on the unique key and then locks the
	// winner's row.
	seed := model.Configuracion{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cfg).Error
	return &cfg, err
}

func (r *configuracionRepo) Upsert(ctx context.Context, cfg *model.Configuracion, cols []string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(cfg).Error
}

func (r *configuracionRepo) UpdateContadorTx(tx *gorm.DB, userID string, contador string) error {
	cfg := model.Configuracion{UserID: userID, NumeroFacturaActual: contador}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"numero_factura_actual"}),
	}).Create(&cfg).Error
}
