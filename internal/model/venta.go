package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is an issued invoice header. Rows are created once at issuance and
// never mutated afterwards; delivery state lives on EnvioFactura.
type Venta struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        string    `gorm:"index;uniqueIndex:uq_ventas_user_numero;not null"`
	NumeroFactura string    `gorm:"uniqueIndex:uq_ventas_user_numero;not null"`
	ClienteID     *uuid.UUID `gorm:"type:uuid;index"`
	FechaVenta    time.Time  `gorm:"not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IVA           decimal.Decimal `gorm:"type:decimal(14,2);not null;column:iva"`
	Descuento     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'COMPLETADA'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
}

// DetalleVenta is one product line within a Venta.
// Subtotal arrives precomputed from the caller (cantidad × precio − descuento)
// and is stored as received.
type DetalleVenta struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
