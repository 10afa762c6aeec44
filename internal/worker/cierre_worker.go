package worker

// cierre_worker.go
// Processes cierre_caja jobs: renders the closing report PDF and mails it to
// the administrators. Only unbalanced closes get a subject marked as alert;
// balanced closes are sent as plain end-of-day reports.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lazarohernan/ezorder-backend/internal/infra"
	"github.com/lazarohernan/ezorder-backend/internal/model"
	"github.com/lazarohernan/ezorder-backend/internal/repository"
)

type CierreWorker struct {
	cajas       repository.CajaRepository
	usuarios    repository.UsuarioRepository
	mailer      *infra.Mailer
	breaker     *infra.CircuitBreaker
	storagePath string
}

func NewCierreWorker(
	cajas repository.CajaRepository,
	usuarios repository.UsuarioRepository,
	mailer *infra.Mailer,
	breaker *infra.CircuitBreaker,
	storagePath string,
) *CierreWorker {
	return &CierreWorker{
		cajas:       cajas,
		usuarios:    usuarios,
		mailer:      mailer,
		breaker:     breaker,
		storagePath: storagePath,
	}
}

func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cierre_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}
	cajaID, err := uuid.Parse(payload.CajaID)
	if err != nil {
		log.Error().Str("caja_id", payload.CajaID).Msg("cierre_worker: invalid caja id")
		return nil
	}

	caja, err := w.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return fmt.Errorf("cierre_worker: caja %s: %w", cajaID, err)
	}
	if caja.Estado != model.CajaCerrada {
		log.Warn().Str("caja_id", cajaID.String()).Msg("cierre_worker: la caja no está cerrada, se omite")
		return nil
	}

	restauranteNombre := "Restaurante"
	if caja.Restaurante != nil {
		restauranteNombre = caja.Restaurante.NombreRestaurante
	}

	pdfPath, err := infra.GenerateCierrePDF(caja, restauranteNombre, w.storagePath)
	if err != nil {
		return fmt.Errorf("cierre_worker: %w", err)
	}

	destinatarios, err := w.usuarios.AdminEmails(ctx)
	if err != nil {
		return fmt.Errorf("cierre_worker: admin emails: %w", err)
	}
	if len(destinatarios) == 0 {
		log.Warn().Str("caja_id", cajaID.String()).Msg("cierre_worker: sin destinatarios, se omite el correo")
		return nil
	}

	fecha := ""
	if caja.FechaCierre != nil {
		fecha = caja.FechaCierre.Format("02/01/2006")
	}
	subject := fmt.Sprintf("Cierre de caja - %s", restauranteNombre)
	body := fmt.Sprintf("Cierre de caja del %s.", fecha)
	if caja.EstadoCuadre != nil && *caja.EstadoCuadre == model.CuadreDescuadrada {
		subject = fmt.Sprintf("⚠️ Caja descuadrada - %s", restauranteNombre)
		if caja.DiferenciaTotal != nil {
			body = fmt.Sprintf("La caja del %s cerró con una diferencia de $%s. Revisa el reporte adjunto.",
				fecha, caja.DiferenciaTotal.StringFixed(2))
		}
	}

	err = w.breaker.Execute(func() error {
		return w.mailer.SendCierre(destinatarios, subject, body, pdfPath)
	})
	if err != nil {
		return fmt.Errorf("cierre_worker: envío de correo: %w", err)
	}

	log.Info().
		Str("caja_id", cajaID.String()).
		Int("destinatarios", len(destinatarios)).
		Msg("cierre_worker: reporte enviado")
	return nil
}
