package repository

import (
	"context"

	"facturapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// listVentasLimit caps GET /v1/ventas at the 100 most recent sales.
const listVentasLimit = 100

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Venta, error)
	// ListRecientes returns the most recent sales, newest first.
	ListRecientes(ctx context.Context, userID string) ([]model.Venta, error)
	CountHoy(ctx context.Context, userID string) (int64, []model.Venta, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	// Creates the header and its Detalles children in one go.
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Cliente").
		Where("id = ? AND user_id = ?", id, userID).
		First(&v).Error
	return &v, err
}

func (r *ventaRepo) ListRecientes(ctx context.Context, userID string) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(listVentasLimit).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) CountHoy(ctx context.Context, userID string) (int64, []model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND DATE(fecha_venta) = CURRENT_DATE", userID).
		Find(&ventas).Error
	return int64(len(ventas)), ventas, err
}
