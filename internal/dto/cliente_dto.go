package dto

// ClienteFilter is bound from query string of GET /v1/clientes.
type ClienteFilter struct {
	Activo   string `form:"activo"` // "false" | "all" | default activos
	Busqueda string `form:"busqueda"`
}

type GuardarClienteRequest struct {
	TipoDocumento   string  `json:"tipo_documento"   validate:"required,oneof=CC NIT CE TI PP"`
	NumeroDocumento string  `json:"numero_documento" validate:"required"`
	Nombre          string  `json:"nombre"           validate:"required"`
	Direccion       *string `json:"direccion"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email" validate:"omitempty,email"`
}

type ClienteResponse struct {
	ID              string  `json:"id"`
	TipoDocumento   string  `json:"tipo_documento"`
	NumeroDocumento string  `json:"numero_documento"`
	Nombre          string  `json:"nombre"`
	Direccion       *string `json:"direccion"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	Activo          bool    `json:"activo"`
}
