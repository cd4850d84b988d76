package model

import (
	"time"

	"github.com/google/uuid"
)

// Envio estados.
const (
	EnvioPendiente = "pendiente"
	EnvioEnviada   = "enviada"
	EnvioOmitida   = "omitida"
	EnvioError     = "error"
)

// EnvioFactura tracks the best-effort email delivery of one issued invoice.
// The Venta row itself never changes; all delivery state (including the retry
// schedule consumed by the retry sweep) lives here.
type EnvioFactura struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID  string    `gorm:"index;not null"`
	Email   string
	Estado  string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath     *string `gorm:"column:pdf_path"`
	RetryCount  int     `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
