package repository

import (
	"context"

	"facturapos/internal/dto"
	"facturapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	// FindByID looks up a product regardless of its activo flag, so
	// historical sale lines can still resolve soft-deleted products.
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, userID string, filter dto.ProductoFilter) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, userID string, id uuid.UUID) error
	Reactivar(ctx context.Context, userID string, id uuid.UUID) error

	// DescontarStockTx decrements stock inside tx only when enough stock
	// exists. Returns (false, nil) when the product row is missing and
	// ErrStockInsuficiente when it exists but the decrement would oversell.
	DescontarStockTx(tx *gorm.DB, userID string, id uuid.UUID, cantidad int) (bool, error)

	Count(ctx context.Context, userID string) (int64, error)
	CountStockBajo(ctx context.Context, userID string) (int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, userID string, filter dto.ProductoFilter) ([]model.Producto, error) {
	var productos []model.Producto

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where("user_id = ?", userID)

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Busqueda != "" {
		term := "%" + filter.Busqueda + "%"
		q = q.Where("codigo ILIKE ? OR nombre ILIKE ? OR descripcion ILIKE ?", term, term, term)
	}

	err := q.Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, userID string, id uuid.UUID) error {
	return r.setActivo(ctx, userID, id, false)
}

func (r *productoRepo) Reactivar(ctx context.Context, userID string, id uuid.UUID) error {
	return r.setActivo(ctx, userID, id, true)
}

func (r *productoRepo) setActivo(ctx context.Context, userID string, id uuid.UUID, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) DescontarStockTx(tx *gorm.DB, userID string, id uuid.UUID, cantidad int) (bool, error) {
	// Conditional decrement: one UPDATE, no read-modify-write window.
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND user_id = ? AND stock >= ?", id, userID, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// Distinguish a missing product (skip, per contract) from an oversell.
	var count int64
	if err := tx.Model(&model.Producto{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	return false, ErrStockInsuficiente
}

func (r *productoRepo) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("user_id = ? AND activo = true", userID).Count(&n).Error
	return n, err
}

func (r *productoRepo) CountStockBajo(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("user_id = ? AND activo = true AND stock <= stock_minimo", userID).Count(&n).Error
	return n, err
}
