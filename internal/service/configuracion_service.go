package service

import (
	"context"
	"errors"

	"facturapos/internal/dto"
	"facturapos/internal/model"
	"facturapos/internal/repository"

	"gorm.io/gorm"
)

// ConfiguracionService reads and saves the per-tenant company settings.
// Saving merges: only submitted fields change. The invoice counter is never
// touched here; the issuance transaction owns it.
type ConfiguracionService interface {
	Obtener(ctx context.Context, userID string) (*dto.ConfiguracionResponse, error)
	Guardar(ctx context.Context, userID string, req dto.GuardarConfiguracionRequest) (*dto.ConfiguracionResponse, error)
}

type configuracionService struct {
	repo repository.ConfiguracionRepository
}

func NewConfiguracionService(repo repository.ConfiguracionRepository) ConfiguracionService {
	return &configuracionService{repo: repo}
}

// Obtener returns the tenant configuration, with defaults for a tenant that
// never saved one.
func (s *configuracionService) Obtener(ctx context.Context, userID string) (*dto.ConfiguracionResponse, error) {
	cfg, err := s.repo.Find(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cfg = defaultConfiguracion(userID)
	}
	return configuracionResponse(cfg), nil
}

// Guardar merges the submitted fields into the stored row.
func (s *configuracionService) Guardar(ctx context.Context, userID string, req dto.GuardarConfiguracionRequest) (*dto.ConfiguracionResponse, error) {
	cfg, err := s.repo.Find(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cfg = defaultConfiguracion(userID)
	}

	cols := []string{"updated_at"}
	set := func(col string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			cols = append(cols, col)
		}
	}
	set("empresa_nombre", &cfg.EmpresaNombre, req.EmpresaNombre)
	set("empresa_nit", &cfg.EmpresaNIT, req.EmpresaNIT)
	set("empresa_direccion", &cfg.EmpresaDireccion, req.EmpresaDireccion)
	set("empresa_telefono", &cfg.EmpresaTelefono, req.EmpresaTelefono)
	set("empresa_email", &cfg.EmpresaEmail, req.EmpresaEmail)
	set("email_password", &cfg.EmailPassword, req.EmailPassword)
	set("smtp_server", &cfg.SMTPServer, req.SMTPServer)
	set("prefijo_factura", &cfg.PrefijoFactura, req.PrefijoFactura)
	set("porcentaje_iva", &cfg.PorcentajeIVA, req.PorcentajeIVA)
	if req.SMTPPort != nil {
		cfg.SMTPPort = *req.SMTPPort
		cols = append(cols, "smtp_port")
	}

	if err := s.repo.Upsert(ctx, cfg, cols); err != nil {
		return nil, err
	}
	return configuracionResponse(cfg), nil
}

func defaultConfiguracion(userID string) *model.Configuracion {
	return &model.Configuracion{
		UserID:              userID,
		SMTPServer:          "smtp.gmail.com",
		SMTPPort:            587,
		PrefijoFactura:      "FAC",
		PorcentajeIVA:       "19",
		NumeroFacturaActual: "0",
	}
}

func configuracionResponse(cfg *model.Configuracion) *dto.ConfiguracionResponse {
	return &dto.ConfiguracionResponse{
		EmpresaNombre:       cfg.EmpresaNombre,
		EmpresaNIT:          cfg.EmpresaNIT,
		EmpresaDireccion:    cfg.EmpresaDireccion,
		EmpresaTelefono:     cfg.EmpresaTelefono,
		EmpresaEmail:        cfg.EmpresaEmail,
		SMTPServer:          cfg.SMTPServer,
		SMTPPort:            cfg.SMTPPort,
		PrefijoFactura:      cfg.PrefijoFactura,
		PorcentajeIVA:       cfg.PorcentajeIVA,
		NumeroFacturaActual: cfg.NumeroFacturaActual,
	}
}
