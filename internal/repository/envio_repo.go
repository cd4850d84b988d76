package repository

import (
	"context"
	"time"

	"facturapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnvioRepository interface {
	Create(ctx context.Context, e *model.EnvioFactura) error
	Update(ctx context.Context, e *model.EnvioFactura) error
	FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.EnvioFactura, error)
	// ListPendingRetries returns deliveries stuck in "pendiente" whose
	// next_retry_at has passed, oldest first, capped at limit.
	ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.EnvioFactura, error)
}

type envioRepo struct{ db *gorm.DB }

func NewEnvioRepository(db *gorm.DB) EnvioRepository { return &envioRepo{db: db} }

func (r *envioRepo) Create(ctx context.Context, e *model.EnvioFactura) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *envioRepo) Update(ctx context.Context, e *model.EnvioFactura) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *envioRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.EnvioFactura, error) {
	var e model.EnvioFactura
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).First(&e).Error
	return &e, err
}

func (r *envioRepo) ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.EnvioFactura, error) {
	var envios []model.EnvioFactura
	err := r.db.WithContext(ctx).
		Where("estado = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.EnvioPendiente, before).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&envios).Error
	return envios, err
}
