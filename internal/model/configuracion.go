package model

import "time"

// Configuracion holds the per-tenant company identity, SMTP credentials and
// invoicing parameters. Exactly one row per tenant; saves use merge semantics
// (only submitted fields change, the counter is owned by the issuance path).
//
// PorcentajeIVA and NumeroFacturaActual are stored as strings: the counter is
// the source of truth for the next invoice number and its parsing contract
// (absent/garbage → 0) is part of the numbering calculator.
type Configuracion struct {
	UserID             string `gorm:"primaryKey"`
	EmpresaNombre      string
	EmpresaNIT         string `gorm:"column:empresa_nit"`
	EmpresaDireccion   string
	EmpresaTelefono    string
	EmpresaEmail       string
	EmailPassword      string
	SMTPServer         string `gorm:"column:smtp_server;default:'smtp.gmail.com'"`
	SMTPPort           int    `gorm:"column:smtp_port;default:587"`
	PrefijoFactura     string `gorm:"not null;default:'FAC'"`
	PorcentajeIVA      string `gorm:"column:porcentaje_iva;not null;default:'19'"`
	NumeroFacturaActual string `gorm:"not null;default:'0'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Configuracion) TableName() string { return "configuracion" }

// EmailCompleto reports whether the tenant has everything needed to send
// invoices by email: SMTP server, port, sender address and password.
func (c *Configuracion) EmailCompleto() bool {
	return c.SMTPServer != "" && c.SMTPPort != 0 && c.EmpresaEmail != "" && c.EmailPassword != ""
}
