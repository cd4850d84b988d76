package infra

import (
	"bytes"
	"fmt"
	"net/smtp"
	"time"

	"facturapos/internal/model"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
)

// Mailer sends invoice emails using the tenant's own SMTP configuration.
// One Mailer instance serves all tenants; the per-tenant credentials travel
// with each send.
type Mailer struct{}

func NewMailer() *Mailer { return &Mailer{} }

// EnvioFacturaParams is everything needed to deliver one invoice email.
type EnvioFacturaParams struct {
	To            string
	ClienteNombre string
	NumeroFactura string
	FechaVenta    time.Time
	Total         decimal.Decimal
	PDF           []byte
}

// Sender abstracts the SMTP transport so the delivery worker can be tested
// without a mail server.
type Sender interface {
	EnviarFactura(cfg *model.Configuracion, params EnvioFacturaParams) error
}

var _ Sender = (*Mailer)(nil)

// EnviarFactura sends a single HTML message with the rendered invoice
// attached as Factura_<numero>.pdf. No retry here; transport errors
// propagate to the caller.
func (m *Mailer) EnviarFactura(cfg *model.Configuracion, params EnvioFacturaParams) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%q <%s>", cfg.EmpresaNombre, cfg.EmpresaEmail)
	e.To = []string{params.To}
	e.Subject = fmt.Sprintf("Factura %s - %s", params.NumeroFactura, cfg.EmpresaNombre)
	e.HTML = []byte(cuerpoFactura(cfg.EmpresaNombre, params))

	if len(params.PDF) > 0 {
		name := fmt.Sprintf("Factura_%s.pdf", params.NumeroFactura)
		if _, err := e.Attach(bytes.NewReader(params.PDF), name, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.SMTPServer, cfg.SMTPPort)
	auth := smtp.PlainAuth("", cfg.EmpresaEmail, cfg.EmailPassword, cfg.SMTPServer)
	return e.Send(addr, auth)
}

func cuerpoFactura(empresa string, p EnvioFacturaParams) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #4F46E5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
      <h1>%s</h1>
      <p>Factura Electr&oacute;nica</p>
    </div>
    <div style="background-color: #f9fafb; padding: 20px; border: 1px solid #e5e7eb;">
      <p>Estimado/a <strong>%s</strong>,</p>
      <p>Le informamos que se ha generado su factura electr&oacute;nica:</p>
      <div style="background-color: white; padding: 15px; margin: 15px 0; border-left: 4px solid #4F46E5;">
        <p><strong>N&uacute;mero de Factura:</strong> %s</p>
        <p><strong>Fecha:</strong> %s</p>
        <p style="font-size: 1.2em; font-weight: bold; color: #4F46E5;">Total: $%s</p>
      </div>
      <p>Adjuntamos el PDF de la factura para su archivo.</p>
    </div>
    <div style="text-align: center; padding: 20px; color: #6b7280; font-size: 0.9em;">
      <p>Este es un correo autom&aacute;tico, por favor no responda a este mensaje.</p>
      <p>&copy; %d %s</p>
    </div>
  </div>
</body>
</html>`,
		empresa,
		p.ClienteNombre,
		p.NumeroFactura,
		p.FechaVenta.Format("02/01/2006"),
		p.Total.StringFixed(2),
		time.Now().Year(),
		empresa,
	)
}
