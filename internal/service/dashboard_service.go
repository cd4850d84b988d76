package service

import (
	"context"

	"facturapos/internal/dto"
	"facturapos/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardService aggregates the home-screen counters.
type DashboardService interface {
	Resumen(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	productoRepo repository.ProductoRepository
	ventaRepo    repository.VentaRepository
}

func NewDashboardService(productoRepo repository.ProductoRepository, ventaRepo repository.VentaRepository) DashboardService {
	return &dashboardService{productoRepo: productoRepo, ventaRepo: ventaRepo}
}

func (s *dashboardService) Resumen(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	totalProductos, err := s.productoRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	stockBajo, err := s.productoRepo.CountStockBajo(ctx, userID)
	if err != nil {
		return nil, err
	}
	ventasHoy, ventas, err := s.ventaRepo.CountHoy(ctx, userID)
	if err != nil {
		return nil, err
	}

	ingresos := decimal.Zero
	for _, v := range ventas {
		ingresos = ingresos.Add(v.Total)
	}

	return &dto.DashboardResponse{
		TotalProductos: totalProductos,
		StockBajo:      stockBajo,
		VentasHoy:      ventasHoy,
		IngresosHoy:    ingresos,
	}, nil
}
