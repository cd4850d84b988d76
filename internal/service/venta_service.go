// Package service holds the business logic between the HTTP handlers and the
// repositories. Services own transactions; repositories own queries.
package service

import (
	"context"
	"errors"
	"time"

	"facturapos/internal/dto"
	"facturapos/internal/facturacion"
	"facturapos/internal/infra"
	"facturapos/internal/metrics"
	"facturapos/internal/model"
	"facturapos/internal/repository"
	"facturapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrStockInsuficiente re-exported so handlers depend on one package.
var ErrStockInsuficiente = repository.ErrStockInsuficiente

// VentaService issues invoices and serves sale queries.
type VentaService interface {
	RegistrarVenta(ctx context.Context, userID string, req dto.RegistrarVentaRequest) (*dto.RegistrarVentaResponse, error)
	ListVentas(ctx context.Context, userID string) ([]dto.VentaListItem, error)
	ObtenerFacturaPDF(ctx context.Context, userID string, ventaID uuid.UUID) ([]byte, string, error)
}

type ventaService struct {
	txm          repository.TxManager
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	configRepo   repository.ConfiguracionRepository
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	txm repository.TxManager,
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	configRepo repository.ConfiguracionRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		txm:          txm,
		ventaRepo:    ventaRepo,
		productoRepo: productoRepo,
		configRepo:   configRepo,
		dispatcher:   dispatcher,
	}
}

// RegistrarVenta issues one invoice atomically:
//
//  1. Lock the tenant configuracion row (serializes the counter; the row is
//     seeded on a tenant's first sale)
//  2. Compute the invoice number and totals over every requested line
//  3. Insert the Venta with all its detalles
//  4. Decrement stock per line; a line whose product does not exist keeps
//     its detalle but skips the decrement, while an oversell aborts the
//     whole sale
//  5. Advance the stored counter
//
// Everything happens in one database transaction: a failure at any step
// leaves no partial sale, no decremented stock and no burned counter value.
// Email delivery is enqueued after commit and can never fail the sale.
func (s *ventaService) RegistrarVenta(ctx context.Context, userID string, req dto.RegistrarVentaRequest) (*dto.RegistrarVentaResponse, error) {
	var venta model.Venta

	err := s.txm.Do(ctx, func(tx *gorm.DB) error {
		cfg, err := s.configRepo.FindForUpdateTx(tx, userID)
		if err != nil {
			return err
		}

		lineas := make([]facturacion.Linea, 0, len(req.Detalles))
		detalles := make([]model.DetalleVenta, 0, len(req.Detalles))
		for _, d := range req.Detalles {
			productoID, err := uuid.Parse(d.ProductoID)
			if err != nil {
				return err
			}
			ok, err := s.productoRepo.DescontarStockTx(tx, userID, productoID, d.Cantidad)
			if err != nil {
				return err
			}
			if !ok {
				// Product gone between cart and checkout: the line is still
				// invoiced, only the stock update is skipped.
				log.Warn().
					Str("user_id", userID).
					Str("producto_id", d.ProductoID).
					Msg("venta: producto inexistente, descuento de stock omitido")
			}
			lineas = append(lineas, facturacion.Linea{
				Cantidad:       d.Cantidad,
				PrecioUnitario: d.PrecioUnitario,
				Descuento:      d.Descuento,
				Subtotal:       d.Subtotal,
			})
			detalles = append(detalles, model.DetalleVenta{
				ProductoID:     productoID,
				Cantidad:       d.Cantidad,
				PrecioUnitario: d.PrecioUnitario,
				Descuento:      d.Descuento,
				Subtotal:       d.Subtotal,
			})
		}

		totales := facturacion.Calcular(
			cfg.NumeroFacturaActual,
			cfg.PrefijoFactura,
			cfg.PorcentajeIVA,
			lineas,
			req.Descuento,
		)

		var clienteID *uuid.UUID
		if req.ClienteID != nil {
			id, err := uuid.Parse(*req.ClienteID)
			if err != nil {
				return err
			}
			clienteID = &id
		}

		venta = model.Venta{
			UserID:        userID,
			NumeroFactura: totales.NumeroFactura,
			ClienteID:     clienteID,
			FechaVenta:    time.Now(),
			Subtotal:      totales.Subtotal,
			IVA:           totales.IVA,
			Descuento:     totales.Descuento,
			Total:         totales.Total,
			Detalles:      detalles,
		}
		if err := s.ventaRepo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		return s.configRepo.UpdateContadorTx(tx, userID, facturacion.FormatContador(totales.Contador))
	})
	if err != nil {
		return nil, err
	}

	metrics.VentasEmitidas.Inc()
	log.Info().
		Str("user_id", userID).
		Str("venta_id", venta.ID.String()).
		Str("numero_factura", venta.NumeroFactura).
		Str("total", venta.Total.String()).
		Msg("venta registrada")

	// Best-effort: a full queue or a down Redis never undoes the sale.
	if s.dispatcher != nil {
		payload := worker.EntregaJobPayload{VentaID: venta.ID.String(), UserID: userID}
		if err := s.dispatcher.EnqueueEntrega(ctx, payload); err != nil {
			log.Error().Err(err).
				Str("venta_id", venta.ID.String()).
				Msg("venta: no se pudo encolar la entrega")
		}
	}

	return &dto.RegistrarVentaResponse{
		ID:            venta.ID.String(),
		NumeroFactura: venta.NumeroFactura,
	}, nil
}

// ListVentas returns the tenant's most recent sales, newest first.
func (s *ventaService) ListVentas(ctx context.Context, userID string) ([]dto.VentaListItem, error) {
	ventas, err := s.ventaRepo.ListRecientes(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VentaListItem, 0, len(ventas))
	for _, v := range ventas {
		item := dto.VentaListItem{
			ID:            v.ID.String(),
			NumeroFactura: v.NumeroFactura,
			ClienteNombre: "Cliente General",
			FechaVenta:    v.FechaVenta.Format(time.RFC3339),
			Subtotal:      v.Subtotal,
			IVA:           v.IVA,
			Descuento:     v.Descuento,
			Total:         v.Total,
			Estado:        v.Estado,
		}
		if v.ClienteID != nil {
			id := v.ClienteID.String()
			item.ClienteID = &id
		}
		if v.Cliente != nil {
			item.ClienteNombre = v.Cliente.Nombre
		}
		items = append(items, item)
	}
	return items, nil
}

// ObtenerFacturaPDF renders the invoice of one sale on demand.
// Returns gorm.ErrRecordNotFound when the sale does not exist or belongs to
// another tenant.
func (s *ventaService) ObtenerFacturaPDF(ctx context.Context, userID string, ventaID uuid.UUID) ([]byte, string, error) {
	venta, err := s.ventaRepo.FindByID(ctx, userID, ventaID)
	if err != nil {
		return nil, "", err
	}

	cfg, err := s.configRepo.Find(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		cfg = &model.Configuracion{UserID: userID}
	}

	raw, err := infra.GenerarFacturaPDF(infra.FacturaDatosDesdeVenta(venta, cfg))
	if err != nil {
		return nil, "", err
	}
	return raw, venta.NumeroFactura, nil
}
