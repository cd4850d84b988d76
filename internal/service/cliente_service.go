package service

import (
	"context"

	"facturapos/internal/dto"
	"facturapos/internal/model"
	"facturapos/internal/repository"

	"github.com/google/uuid"
)

// ClienteService handles customer CRUD with the same soft-delete semantics
// as the catalog.
type ClienteService interface {
	Crear(ctx context.Context, userID string, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, userID string, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, userID string, filter dto.ClienteFilter) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, userID string, id uuid.UUID, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, userID string, id uuid.UUID) error
	Reactivar(ctx context.Context, userID string, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, userID string, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		UserID:          userID,
		TipoDocumento:   req.TipoDocumento,
		NumeroDocumento: req.NumeroDocumento,
		Nombre:          req.Nombre,
		Direccion:       req.Direccion,
		Telefono:        req.Telefono,
		Email:           req.Email,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteResponse(c), nil
}

func (s *clienteService) Obtener(ctx context.Context, userID string, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return clienteResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, userID string, filter dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *clienteResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, userID string, id uuid.UUID, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.TipoDocumento = req.TipoDocumento
	c.NumeroDocumento = req.NumeroDocumento
	c.Nombre = req.Nombre
	c.Direccion = req.Direccion
	c.Telefono = req.Telefono
	c.Email = req.Email
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteResponse(c), nil
}

func (s *clienteService) Eliminar(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, userID, id)
}

func (s *clienteService) Reactivar(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, userID, id)
}

func clienteResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:              c.ID.String(),
		TipoDocumento:   c.TipoDocumento,
		NumeroDocumento: c.NumeroDocumento,
		Nombre:          c.Nombre,
		Direccion:       c.Direccion,
		Telefono:        c.Telefono,
		Email:           c.Email,
		Activo:          c.Activo,
	}
}
