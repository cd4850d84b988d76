package worker

// entrega_worker.go
// Processes invoice delivery jobs from QueueEntrega: renders the PDF and
// emails it to the customer. Strictly best-effort — the sale was already
// committed, so every failure path here ends in a log line and a tracked
// EnvioFactura state, never in an error surfaced to the seller.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"facturapos/internal/infra"
	"facturapos/internal/metrics"
	"facturapos/internal/model"
	"facturapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	maxEntregaRetries = 3
	retryBaseDelay    = time.Minute
)

// EntregaJobPayload is the job envelope sent to QueueEntrega.
type EntregaJobPayload struct {
	VentaID string `json:"venta_id"`
	UserID  string `json:"user_id"`
}

// EntregaWorker delivers issued invoices by email.
type EntregaWorker struct {
	ventaRepo  repository.VentaRepository
	configRepo repository.ConfiguracionRepository
	envioRepo  repository.EnvioRepository
	mailer     infra.Sender
	rdb        *redis.Client
	pdfStorage string
}

func NewEntregaWorker(
	ventaRepo repository.VentaRepository,
	configRepo repository.ConfiguracionRepository,
	envioRepo repository.EnvioRepository,
	mailer infra.Sender,
	rdb *redis.Client,
	pdfStorage string,
) *EntregaWorker {
	return &EntregaWorker{
		ventaRepo:  ventaRepo,
		configRepo: configRepo,
		envioRepo:  envioRepo,
		mailer:     mailer,
		rdb:        rdb,
		pdfStorage: pdfStorage,
	}
}

// Process handles a fresh delivery job:
//  1. Load the Venta with its detalles and customer
//  2. Load the tenant Configuracion (absent → all defaults)
//  3. Skip (estado "omitida") when SMTP config is incomplete or the
//     customer has no email address
//  4. Render the PDF and send the email; failures schedule a retry
func (w *EntregaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EntregaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("entrega_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("entrega_worker: invalid venta_id")
		return
	}

	// Redelivered jobs are no-ops: one envio per venta.
	if existing, err := w.envioRepo.FindByVentaID(ctx, ventaID); err == nil && existing != nil {
		log.Debug().Str("venta_id", payload.VentaID).Msg("entrega_worker: envio already recorded")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, payload.UserID, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("entrega_worker: venta not found")
		return
	}

	cfg, err := w.configRepo.Find(ctx, payload.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("entrega_worker: config lookup failed")
			return
		}
		cfg = &model.Configuracion{UserID: payload.UserID}
	}

	destinatario := ""
	if venta.Cliente != nil && venta.Cliente.Email != nil {
		destinatario = *venta.Cliente.Email
	}

	envio := &model.EnvioFactura{
		VentaID: ventaID,
		UserID:  payload.UserID,
		Email:   destinatario,
	}

	if !cfg.EmailCompleto() || destinatario == "" {
		envio.Estado = model.EnvioOmitida
		if err := w.envioRepo.Create(ctx, envio); err != nil {
			log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("entrega_worker: failed to record envio")
		}
		metrics.EnviosFactura.WithLabelValues(model.EnvioOmitida).Inc()
		log.Info().
			Str("venta_id", payload.VentaID).
			Bool("smtp_completo", cfg.EmailCompleto()).
			Bool("cliente_con_email", destinatario != "").
			Msg("entrega_worker: delivery skipped")
		return
	}

	envio.Estado = model.EnvioPendiente
	if err := w.envioRepo.Create(ctx, envio); err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("entrega_worker: failed to record envio")
		return
	}

	w.attempt(ctx, envio, venta, cfg)
}

// Retry re-attempts a delivery previously left in "pendiente" by a failed
// attempt. Called from the retry sweep.
func (w *EntregaWorker) Retry(ctx context.Context, envio *model.EnvioFactura) {
	ventaID := envio.VentaID
	venta, err := w.ventaRepo.FindByID(ctx, envio.UserID, ventaID)
	if err != nil {
		w.markError(ctx, envio, "venta desaparecida: "+err.Error())
		return
	}
	cfg, err := w.configRepo.Find(ctx, envio.UserID)
	if err != nil {
		// Config deleted since issuance: nothing left to send with.
		w.markError(ctx, envio, "configuracion no disponible")
		return
	}
	w.attempt(ctx, envio, venta, cfg)
}

// attempt renders and sends once, then updates the envio state.
func (w *EntregaWorker) attempt(ctx context.Context, envio *model.EnvioFactura, venta *model.Venta, cfg *model.Configuracion) {
	datos := infra.FacturaDatosDesdeVenta(venta, cfg)

	raw, err := infra.GenerarFacturaPDF(datos)
	if err != nil {
		w.scheduleRetry(ctx, envio, "render: "+err.Error())
		return
	}
	pdfPath, err := infra.EscribirFacturaPDF(raw, venta.NumeroFactura, w.pdfStorage)
	if err != nil {
		w.scheduleRetry(ctx, envio, "archivo: "+err.Error())
		return
	}
	envio.PDFPath = &pdfPath

	err = w.mailer.EnviarFactura(cfg, infra.EnvioFacturaParams{
		To:            envio.Email,
		ClienteNombre: datos.ClienteNombre,
		NumeroFactura: venta.NumeroFactura,
		FechaVenta:    venta.FechaVenta,
		Total:         venta.Total,
		PDF:           raw,
	})
	if err != nil {
		w.scheduleRetry(ctx, envio, "smtp: "+err.Error())
		return
	}

	envio.Estado = model.EnvioEnviada
	envio.NextRetryAt = nil
	envio.LastError = nil
	if err := w.envioRepo.Update(ctx, envio); err != nil {
		log.Error().Err(err).Str("venta_id", venta.ID.String()).Msg("entrega_worker: failed to update envio")
	}
	metrics.EnviosFactura.WithLabelValues(model.EnvioEnviada).Inc()
	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("numero_factura", venta.NumeroFactura).
		Str("to", envio.Email).
		Msg("entrega_worker: factura enviada")
}

// scheduleRetry leaves the envio pending with an exponential next_retry_at,
// or gives up into the DLQ after maxEntregaRetries.
func (w *EntregaWorker) scheduleRetry(ctx context.Context, envio *model.EnvioFactura, reason string) {
	envio.RetryCount++
	envio.LastError = &reason

	if envio.RetryCount > maxEntregaRetries {
		envio.Estado = model.EnvioError
		envio.NextRetryAt = nil
		if err := w.envioRepo.Update(ctx, envio); err != nil {
			log.Error().Err(err).Msg("entrega_worker: failed to update envio")
		}
		if w.rdb != nil {
			payload, _ := json.Marshal(EntregaJobPayload{VentaID: envio.VentaID.String(), UserID: envio.UserID})
			SendToDLQ(ctx, w.rdb, QueueEntrega, "entrega", payload, reason, envio.RetryCount)
		}
		metrics.EnviosFactura.WithLabelValues(model.EnvioError).Inc()
		log.Error().
			Str("venta_id", envio.VentaID.String()).
			Str("reason", reason).
			Msg("entrega_worker: delivery abandoned")
		return
	}

	// 1m, 2m, 4m …
	next := time.Now().Add(retryBaseDelay * time.Duration(1<<uint(envio.RetryCount-1)))
	envio.Estado = model.EnvioPendiente
	envio.NextRetryAt = &next
	if err := w.envioRepo.Update(ctx, envio); err != nil {
		log.Error().Err(err).Msg("entrega_worker: failed to update envio")
	}
	metrics.EnviosFactura.WithLabelValues(model.EnvioPendiente).Inc()
	log.Warn().
		Str("venta_id", envio.VentaID.String()).
		Str("reason", reason).
		Int("retry_count", envio.RetryCount).
		Time("next_retry_at", next).
		Msg("entrega_worker: delivery failed, retry scheduled")
}

func (w *EntregaWorker) markError(ctx context.Context, envio *model.EnvioFactura, reason string) {
	envio.Estado = model.EnvioError
	envio.NextRetryAt = nil
	envio.LastError = &reason
	if err := w.envioRepo.Update(ctx, envio); err != nil {
		log.Error().Err(err).Msg("entrega_worker: failed to update envio")
	}
	metrics.EnviosFactura.WithLabelValues(model.EnvioError).Inc()
}
