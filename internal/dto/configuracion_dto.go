package dto

// GuardarConfiguracionRequest is the PUT /v1/configuracion body. All fields
// are optional; only submitted fields are written (merge semantics). The
// invoice counter is never writable through this endpoint — it is owned by
// the issuance path.
type GuardarConfiguracionRequest struct {
	EmpresaNombre    *string `json:"empresa_nombre"`
	EmpresaNIT       *string `json:"empresa_nit"`
	EmpresaDireccion *string `json:"empresa_direccion"`
	EmpresaTelefono  *string `json:"empresa_telefono"`
	EmpresaEmail     *string `json:"empresa_email" validate:"omitempty,email"`
	EmailPassword    *string `json:"email_password"`
	SMTPServer       *string `json:"smtp_server"`
	SMTPPort         *int    `json:"smtp_port" validate:"omitempty,min=1,max=65535"`
	PrefijoFactura   *string `json:"prefijo_factura"`
	PorcentajeIVA    *string `json:"porcentaje_iva"`
}

type ConfiguracionResponse struct {
	EmpresaNombre       string `json:"empresa_nombre"`
	EmpresaNIT          string `json:"empresa_nit"`
	EmpresaDireccion    string `json:"empresa_direccion"`
	EmpresaTelefono     string `json:"empresa_telefono"`
	EmpresaEmail        string `json:"empresa_email"`
	SMTPServer          string `json:"smtp_server"`
	SMTPPort            int    `json:"smtp_port"`
	PrefijoFactura      string `json:"prefijo_factura"`
	PorcentajeIVA       string `json:"porcentaje_iva"`
	NumeroFacturaActual string `json:"numero_factura_actual"`
	// EmailPassword is intentionally absent from responses.
}
