package repository

import (
	"context"

	"facturapos/internal/dto"
	"facturapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	// FindByID ignores the activo flag: soft-deleted customers remain
	// resolvable for historical sales.
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, userID string, filter dto.ClienteFilter) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, userID string, id uuid.UUID) error
	Reactivar(ctx context.Context, userID string, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, userID string, filter dto.ClienteFilter) ([]model.Cliente, error) {
	var clientes []model.Cliente

	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("user_id = ?", userID)

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}

	if filter.Busqueda != "" {
		term := "%" + filter.Busqueda + "%"
		q = q.Where("numero_documento ILIKE ? OR nombre ILIKE ? OR telefono ILIKE ?", term, term, term)
	}

	err := q.Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, userID string, id uuid.UUID) error {
	return r.setActivo(ctx, userID, id, false)
}

func (r *clienteRepo) Reactivar(ctx context.Context, userID string, id uuid.UUID) error {
	return r.setActivo(ctx, userID, id, true)
}

func (r *clienteRepo) setActivo(ctx context.Context, userID string, id uuid.UUID, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Cliente{}).
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
