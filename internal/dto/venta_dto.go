package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	Descuento      decimal.Decimal `json:"descuento"       validate:"min=0"`
	// Subtotal is computed by the point of sale (cantidad × precio − descuento)
	// and stored as received.
	Subtotal decimal.Decimal `json:"subtotal" validate:"required"`
}

type RegistrarVentaRequest struct {
	ClienteID *string         `json:"cliente_id" validate:"omitempty,uuid"`
	Descuento decimal.Decimal `json:"descuento"  validate:"min=0"`
	// Subtotal is echoed by the UI but the server recomputes the header
	// subtotal as the sum of line subtotals.
	Subtotal decimal.Decimal       `json:"subtotal"`
	Detalles []DetalleVentaRequest `json:"detalles" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// RegistrarVentaResponse is the 201 body of POST /v1/ventas.
type RegistrarVentaResponse struct {
	ID            string `json:"id"`
	NumeroFactura string `json:"numero_factura"`
}

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Codigo         string          `json:"codigo,omitempty"`
	Nombre         string          `json:"nombre,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// VentaListItem is one row of GET /v1/ventas, enriched with the customer's
// display name ("Cliente General" when the sale has no customer reference).
type VentaListItem struct {
	ID            string          `json:"id"`
	NumeroFactura string          `json:"numero_factura"`
	ClienteID     *string         `json:"cliente_id"`
	ClienteNombre string          `json:"cliente_nombre"`
	FechaVenta    string          `json:"fecha_venta"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	IVA           decimal.Decimal `json:"iva"`
	Descuento     decimal.Decimal `json:"descuento"`
	Total         decimal.Decimal `json:"total"`
	Estado        string          `json:"estado"`
}
