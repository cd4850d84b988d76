package service

import (
	"context"

	"facturapos/internal/dto"
	"facturapos/internal/model"
	"facturapos/internal/repository"

	"github.com/google/uuid"
)

// ProductoService handles catalog CRUD. Deletion is always soft: the activo
// flag flips, the row stays so historical sale lines keep resolving.
type ProductoService interface {
	Crear(ctx context.Context, userID string, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, userID string, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, userID string, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, userID string, id uuid.UUID, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, userID string, id uuid.UUID) error
	Reactivar(ctx context.Context, userID string, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

func (s *productoService) Crear(ctx context.Context, userID string, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		UserID:       userID,
		Codigo:       req.Codigo,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Categoria:    req.Categoria,
		PrecioCompra: req.PrecioCompra,
		PrecioVenta:  req.PrecioVenta,
		Stock:        req.Stock,
		StockMinimo:  req.StockMinimo,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoResponse(p), nil
}

func (s *productoService) Obtener(ctx context.Context, userID string, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return productoResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, userID string, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoResponse(&productos[i]))
	}
	return out, nil
}

func (s *productoService) Actualizar(ctx context.Context, userID string, id uuid.UUID, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	p.Codigo = req.Codigo
	p.Nombre = req.Nombre
	p.Descripcion = req.Descripcion
	p.Categoria = req.Categoria
	p.PrecioCompra = req.PrecioCompra
	p.PrecioVenta = req.PrecioVenta
	p.Stock = req.Stock
	p.StockMinimo = req.StockMinimo
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoResponse(p), nil
}

func (s *productoService) Eliminar(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, userID, id)
}

func (s *productoService) Reactivar(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, userID, id)
}

func productoResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Categoria:    p.Categoria,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		Activo:       p.Activo,
	}
}
