package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente stores a tenant's customer record.
// TipoDocumento: "CC" | "NIT" | "CE" | "TI" | "PP"
type Cliente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          string    `gorm:"index;not null"`
	TipoDocumento   string    `gorm:"type:varchar(10);not null;default:'CC'"`
	NumeroDocumento string    `gorm:"index;not null"`
	Nombre          string    `gorm:"index;not null"`
	Direccion       *string
	Telefono        *string
	Email           *string
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
