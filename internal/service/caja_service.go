package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/authz"
	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/model"
	"github.com/lazarohernan/ezorder-backend/internal/reconcile"
	"github.com/lazarohernan/ezorder-backend/internal/repository"
	"github.com/lazarohernan/ezorder-backend/internal/timeutil"
)

// ledgerTimeout bounds the pedidos/gastos aggregation at close time. When it
// expires the close is rejected as unavailable rather than closing with
// totals in zero.
const ledgerTimeout = 10 * time.Second

// CierreNotifier receives the id of a closed caja for async notification
// (PDF report + email). Implementations must not block.
type CierreNotifier interface {
	NotificarCierre(cajaID uuid.UUID)
}

type CajaService interface {
	Abrir(ctx context.Context, p authz.Principal, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Actualizar(ctx context.Context, p authz.Principal, cajaID uuid.UUID, req dto.ActualizarCajaRequest) (*dto.CajaResponse, error)
	Cerrar(ctx context.Context, p authz.Principal, cajaID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	// GetActual returns (nil, nil) when no session is open: clients poll this
	// endpoint and "no caja" is a normal state, not an error.
	GetActual(ctx context.Context, p authz.Principal, restauranteID uuid.UUID) (*dto.CajaResponse, error)
	// GetResumen summarizes the window of the given civil day (today when fecha
	// is nil). With no open session it returns a zeroed summary.
	GetResumen(ctx context.Context, p authz.Principal, restauranteID uuid.UUID, fecha *time.Time) (*dto.ResumenCajaResponse, error)
	GetByID(ctx context.Context, p authz.Principal, cajaID uuid.UUID) (*dto.CajaResponse, error)
	List(ctx context.Context, p authz.Principal, filter dto.CajaFilter) (*dto.ListCajasResponse, error)
	ListAbiertas(ctx context.Context, p authz.Principal) ([]dto.CajaResponse, error)
}

type cajaService struct {
	cajas    repository.CajaRepository
	ledger   repository.LedgerRepository
	usuarios repository.UsuarioRepository
	notifier CierreNotifier
}

func NewCajaService(
	cajas repository.CajaRepository,
	ledger repository.LedgerRepository,
	usuarios repository.UsuarioRepository,
	notifier CierreNotifier,
) CajaService {
	return &cajaService{cajas: cajas, ledger: ledger, usuarios: usuarios, notifier: notifier}
}

// ── Scope ─────────────────────────────────────────────────────────────────────

// restaurantesPermitidos returns the restaurant ids the principal may touch.
// nil means unrestricted (super admin tier).
func (s *cajaService) restaurantesPermitidos(ctx context.Context, p authz.Principal) ([]uuid.UUID, error) {
	if p.RolID == model.RolSuperAdmin || p.EsSuperAdmin {
		return nil, nil
	}
	ids, err := s.usuarios.RestaurantesDeUsuario(ctx, p.ID)
	if err != nil {
		return nil, apierror.Internal("no se pudo resolver los restaurantes del usuario")
	}
	if p.RestauranteID != nil {
		ids = append(ids, *p.RestauranteID)
	}
	return ids, nil
}

func (s *cajaService) verificarAcceso(ctx context.Context, p authz.Principal, restauranteID uuid.UUID) error {
	permitidos, err := s.restaurantesPermitidos(ctx, p)
	if err != nil {
		return err
	}
	if permitidos == nil {
		return nil
	}
	for _, id := range permitidos {
		if id == restauranteID {
			return nil
		}
	}
	return apierror.Forbidden("No tienes acceso a este restaurante")
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, p authz.Principal, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	restauranteID, err := uuid.Parse(req.RestauranteID)
	if err != nil {
		return nil, apierror.Validation("restaurante_id inválido")
	}
	if err := s.verificarAcceso(ctx, p, restauranteID); err != nil {
		return nil, err
	}

	// Friendly pre-check; the partial unique index is the real guard.
	if existente, err := s.cajas.FindAbiertaPorRestaurante(ctx, restauranteID); err == nil && existente != nil {
		return nil, conflictCajaAbierta(existente)
	}

	s.advertenciasDeApertura(ctx, restauranteID)

	caja := &model.Caja{
		ID:            uuid.New(),
		RestauranteID: restauranteID,
		UsuarioID:     p.ID,
		MontoInicial:  req.MontoInicial,
		Estado:        model.CajaAbierta,
		FechaApertura: timeutil.Ahora(),
		TotalIngresos: decimal.Zero,
		TotalEgresos:  decimal.Zero,
		Observaciones: req.Observaciones,
	}
	if err := s.cajas.Create(ctx, caja); err != nil {
		// A concurrent open may slip past the pre-check; the index reports it.
		if strings.Contains(err.Error(), "uq_caja_abierta_por_restaurante") {
			if existente, ferr := s.cajas.FindAbiertaPorRestaurante(ctx, restauranteID); ferr == nil && existente != nil {
				return nil, conflictCajaAbierta(existente)
			}
			return nil, apierror.Conflict("Ya existe una caja abierta para este restaurante")
		}
		return nil, apierror.Internal("no se pudo abrir la caja")
	}

	resp := s.toResponse(ctx, caja)
	return &resp, nil
}

func conflictCajaAbierta(existente *model.Caja) error {
	return apierror.Conflict("Ya existe una caja abierta para este restaurante").
		WithMeta("caja_existente", map[string]interface{}{
			"id":             existente.ID.String(),
			"fecha_apertura": existente.FechaApertura,
			"usuario_id":     existente.UsuarioID.String(),
		})
}

// advertenciasDeApertura logs advisory conditions without blocking the open:
// a same-day reclose and an unbalanced previous close are suspicious but
// legitimate.
func (s *cajaService) advertenciasDeApertura(ctx context.Context, restauranteID uuid.UUID) {
	ultima, err := s.cajas.UltimaCerrada(ctx, restauranteID)
	if err != nil || ultima == nil {
		return
	}
	if ultima.FechaCierre != nil && timeutil.MismoDia(*ultima.FechaCierre, timeutil.Ahora()) {
		log.Warn().
			Str("restaurante_id", restauranteID.String()).
			Str("caja_anterior", ultima.ID.String()).
			Msg("reapertura de caja el mismo día del último cierre")
	}
	if ultima.DiferenciaTotal != nil && ultima.DiferenciaTotal.Abs().GreaterThan(reconcile.Tolerancia) {
		log.Warn().
			Str("restaurante_id", restauranteID.String()).
			Str("caja_anterior", ultima.ID.String()).
			Str("diferencia_total", ultima.DiferenciaTotal.StringFixed(2)).
			Msg("la caja anterior cerró descuadrada")
	}
}

// ── Actualizar ────────────────────────────────────────────────────────────────

func (s *cajaService) Actualizar(ctx context.Context, p authz.Principal, cajaID uuid.UUID, req dto.ActualizarCajaRequest) (*dto.CajaResponse, error) {
	caja, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, apierror.NotFound("caja no encontrada")
	}
	if err := s.verificarAcceso(ctx, p, caja.RestauranteID); err != nil {
		return nil, err
	}

	campos := map[string]interface{}{}
	if req.TotalIngresos != nil {
		campos["total_ingresos"] = *req.TotalIngresos
	}
	if req.TotalEgresos != nil {
		campos["total_egresos"] = *req.TotalEgresos
	}
	if req.Observaciones != nil {
		campos["observaciones"] = *req.Observaciones
	}
	if len(campos) == 0 {
		return nil, apierror.Validation("no hay campos para actualizar")
	}

	ok, err := s.cajas.ActualizarAbierta(ctx, cajaID, campos)
	if err != nil {
		return nil, apierror.Internal("no se pudo actualizar la caja")
	}
	if !ok {
		return nil, apierror.Conflict("La caja ya fue cerrada; no admite ajustes")
	}

	caja, err = s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, apierror.Internal("no se pudo releer la caja")
	}
	resp := s.toResponse(ctx, caja)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *cajaService) Cerrar(ctx context.Context, p authz.Principal, cajaID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	caja, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, apierror.NotFound("caja no encontrada")
	}
	if err := s.verificarAcceso(ctx, p, caja.RestauranteID); err != nil {
		return nil, err
	}
	if caja.Estado != model.CajaAbierta {
		return nil, apierror.Conflict("La caja ya está cerrada")
	}

	desde := timeutil.InicioDelDia(caja.FechaApertura)
	hasta := timeutil.FinDelDia(timeutil.Ahora())
	ventas, gastos, err := s.totalesDelPeriodo(ctx, caja.RestauranteID, desde, hasta)
	if err != nil {
		return nil, err
	}

	resultado := reconcile.Cuadrar(reconcile.Entrada{
		MontoInicial:                  caja.MontoInicial,
		VentasEfectivo:                ventas.Efectivo,
		VentasPOS:                     ventas.POS,
		VentasTransferencia:           ventas.Transferencia,
		GastosSistema:                 gastos,
		TotalIngresos:                 caja.TotalIngresos,
		EfectivoDeclarado:             *req.MontoFinal,
		VentasPosDeclaradas:           req.VentasPosReportadas,
		VentasTransferenciaDeclaradas: req.VentasTransferenciaReportadas,
		GastosDeclarados:              req.GastosReportados,
		VentasEfectivoDeclaradas:      req.VentasEfectivoReportadas,
	})

	ahora := timeutil.Ahora()
	campos := map[string]interface{}{
		"fecha_cierre":                    ahora,
		"monto_final":                     *req.MontoFinal,
		"total_ventas":                    ventas.Total,
		"efectivo_declarado":              *req.MontoFinal,
		"ventas_pos_declaradas":           req.VentasPosReportadas,
		"ventas_transferencia_declaradas": req.VentasTransferenciaReportadas,
		"gastos_declarados":               req.GastosReportados,
		"ventas_efectivo_declaradas":      req.VentasEfectivoReportadas,
		"efectivo_sistema":                resultado.EfectivoEsperado,
		"ventas_efectivo_sistema":         ventas.Efectivo,
		"ventas_pos_sistema":              ventas.POS,
		"ventas_transferencia_sistema":    ventas.Transferencia,
		"gastos_sistema":                  gastos,
		"diferencia_efectivo":             resultado.DiferenciaEfectivo,
		"diferencia_pos":                  resultado.DiferenciaPos,
		"diferencia_transferencia":        resultado.DiferenciaTransf,
		"diferencia_gastos":               resultado.DiferenciaGastos,
		"diferencia_ventas_efectivo":      resultado.DiferenciaVentasEf,
		"diferencia_total":                resultado.DiferenciaTotal,
		"estado_cuadre":                   resultado.EstadoCuadre,
	}
	if req.Observaciones != nil {
		campos["observaciones"] = *req.Observaciones
	}

	ok, err := s.cajas.Cerrar(ctx, cajaID, campos)
	if err != nil {
		return nil, apierror.Internal("no se pudo cerrar la caja")
	}
	if !ok {
		return nil, apierror.Conflict("La caja ya fue cerrada por otra solicitud")
	}

	log.Info().
		Str("caja_id", cajaID.String()).
		Str("restaurante_id", caja.RestauranteID.String()).
		Str("estado_cuadre", resultado.EstadoCuadre).
		Str("diferencia_total", resultado.DiferenciaTotal.StringFixed(2)).
		Msg("caja cerrada")

	if s.notifier != nil {
		s.notifier.NotificarCierre(cajaID)
	}

	cerrada, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, apierror.Internal("no se pudo releer la caja cerrada")
	}

	return &dto.CierreCajaResponse{
		Data: s.toResponse(ctx, cerrada),
		Validacion: dto.ValidacionCierre{
			EfectivoEsperado:      resultado.EfectivoEsperado,
			EfectivoDeclarado:     *req.MontoFinal,
			DiferenciaEfectivo:    resultado.DiferenciaEfectivo,
			DiferenciaPos:         resultado.DiferenciaPos,
			DiferenciaTransf:      resultado.DiferenciaTransf,
			DiferenciaGastos:      resultado.DiferenciaGastos,
			DiferenciaVentasEfect: resultado.DiferenciaVentasEf,
			DiferenciaTotal:       resultado.DiferenciaTotal,
			Cuadra:                resultado.Cuadra,
			Mensaje:               resultado.Mensaje,
		},
	}, nil
}

// totalesDelPeriodo aggregates the ledgers over a civil-day window
// (America/Tegucigalpa).
func (s *cajaService) totalesDelPeriodo(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) (dto.VentasPorMetodo, decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, ledgerTimeout)
	defer cancel()

	ventas, err := s.ledger.VentasPorMetodo(ctx, restauranteID, desde, hasta)
	if err != nil {
		return dto.VentasPorMetodo{}, decimal.Zero, errLedger(err)
	}
	gastos, err := s.ledger.TotalGastos(ctx, restauranteID, desde, hasta)
	if err != nil {
		return dto.VentasPorMetodo{}, decimal.Zero, errLedger(err)
	}
	return ventas, gastos, nil
}

func errLedger(err error) error {
	log.Error().Err(err).Msg("fallo la agregación de ledgers")
	return apierror.Unavailable("Reconciliación no disponible: no se pudieron leer las ventas y gastos. Intenta de nuevo.")
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) GetActual(ctx context.Context, p authz.Principal, restauranteID uuid.UUID) (*dto.CajaResponse, error) {
	if err := s.verificarAcceso(ctx, p, restauranteID); err != nil {
		return nil, err
	}
	caja, err := s.cajas.FindAbiertaPorRestaurante(ctx, restauranteID)
	if err != nil {
		return nil, apierror.Internal("no se pudo consultar la caja")
	}
	if caja == nil {
		// No open session is a normal state, not an error.
		return nil, nil
	}
	resp := s.toResponse(ctx, caja)
	return &resp, nil
}

func (s *cajaService) GetResumen(ctx context.Context, p authz.Principal, restauranteID uuid.UUID, fecha *time.Time) (*dto.ResumenCajaResponse, error) {
	if err := s.verificarAcceso(ctx, p, restauranteID); err != nil {
		return nil, err
	}
	caja, err := s.cajas.FindAbiertaPorRestaurante(ctx, restauranteID)
	if err != nil {
		return nil, apierror.Internal("no se pudo consultar la caja")
	}
	if caja == nil {
		// Without an open session the summary is all zeros.
		return &dto.ResumenCajaResponse{
			Ventas: dto.VentasPorMetodo{
				Efectivo:      decimal.Zero,
				POS:           decimal.Zero,
				Transferencia: decimal.Zero,
				Total:         decimal.Zero,
			},
			Gastos:           decimal.Zero,
			GastosDetalle:    []dto.GastoResponse{},
			EfectivoEsperado: decimal.Zero,
		}, nil
	}

	// fecha overrides the window's civil day; default is the session's.
	desde := timeutil.InicioDelDia(caja.FechaApertura)
	hasta := timeutil.FinDelDia(timeutil.Ahora())
	if fecha != nil {
		desde = timeutil.InicioDelDia(*fecha)
		hasta = timeutil.FinDelDia(*fecha)
	}

	ventas, gastos, err := s.totalesDelPeriodo(ctx, caja.RestauranteID, desde, hasta)
	if err != nil {
		return nil, err
	}

	esperado := caja.MontoInicial.
		Add(ventas.Efectivo).
		Add(caja.TotalIngresos).
		Sub(gastos)

	cajaResp := s.toResponse(ctx, caja)
	return &dto.ResumenCajaResponse{
		Caja:             &cajaResp,
		Ventas:           ventas,
		Gastos:           gastos,
		GastosDetalle:    s.detalleDeGastos(ctx, caja.RestauranteID, desde, hasta),
		EfectivoEsperado: esperado,
	}, nil
}

// detalleDeGastos lists the window's individual expenses for the live summary.
// Best-effort: the totals above are authoritative, so a failed listing only
// logs and returns empty.
func (s *cajaService) detalleDeGastos(ctx context.Context, restauranteID uuid.UUID, desde, hasta time.Time) []dto.GastoResponse {
	gastos, err := s.ledger.ListGastos(ctx, restauranteID, desde, hasta)
	if err != nil {
		log.Debug().Err(err).Msg("no se pudo listar el detalle de gastos")
		return []dto.GastoResponse{}
	}
	out := make([]dto.GastoResponse, len(gastos))
	for i, g := range gastos {
		out[i] = dto.GastoResponse{
			ID:          g.ID.String(),
			Monto:       g.Monto,
			Descripcion: g.Descripcion,
			FechaGasto:  g.FechaGasto,
		}
	}
	return out
}

func (s *cajaService) GetByID(ctx context.Context, p authz.Principal, cajaID uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, apierror.NotFound("caja no encontrada")
	}
	if err := s.verificarAcceso(ctx, p, caja.RestauranteID); err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, caja)
	return &resp, nil
}

func (s *cajaService) List(ctx context.Context, p authz.Principal, filter dto.CajaFilter) (*dto.ListCajasResponse, error) {
	permitidos, err := s.restaurantesPermitidos(ctx, p)
	if err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	cajas, total, err := s.cajas.List(ctx, filter, permitidos)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar las cajas")
	}

	return &dto.ListCajasResponse{
		Data:  s.toResponses(ctx, cajas),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *cajaService) ListAbiertas(ctx context.Context, p authz.Principal) ([]dto.CajaResponse, error) {
	permitidos, err := s.restaurantesPermitidos(ctx, p)
	if err != nil {
		return nil, err
	}
	cajas, err := s.cajas.ListAbiertas(ctx, permitidos)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar las cajas abiertas")
	}
	return s.toResponses(ctx, cajas), nil
}

// ── Mapeo ─────────────────────────────────────────────────────────────────────

func (s *cajaService) toResponse(ctx context.Context, c *model.Caja) dto.CajaResponse {
	resps := s.toResponses(ctx, []model.Caja{*c})
	return resps[0]
}

// toResponses maps sessions to the API shape, enriching user names in one
// batched query. Enrichment is best-effort: on failure names stay nil.
func (s *cajaService) toResponses(ctx context.Context, cajas []model.Caja) []dto.CajaResponse {
	ids := make([]uuid.UUID, 0, len(cajas))
	visto := map[uuid.UUID]bool{}
	for _, c := range cajas {
		if !visto[c.UsuarioID] {
			visto[c.UsuarioID] = true
			ids = append(ids, c.UsuarioID)
		}
	}
	nombres, err := s.usuarios.NombresPorIDs(ctx, ids)
	if err != nil {
		log.Debug().Err(err).Msg("no se pudieron resolver nombres de usuario")
		nombres = map[uuid.UUID]string{}
	}

	out := make([]dto.CajaResponse, len(cajas))
	for i, c := range cajas {
		resp := dto.CajaResponse{
			ID:              c.ID.String(),
			RestauranteID:   c.RestauranteID.String(),
			UsuarioID:       c.UsuarioID.String(),
			Estado:          c.Estado,
			MontoInicial:    c.MontoInicial,
			FechaApertura:   c.FechaApertura,
			FechaCierre:     c.FechaCierre,
			TotalIngresos:   c.TotalIngresos,
			TotalEgresos:    c.TotalEgresos,
			Observaciones:   c.Observaciones,
			MontoFinal:      c.MontoFinal,
			TotalVentas:     c.TotalVentas,
			EfectivoSistema: c.EfectivoSistema,
			DiferenciaTotal: c.DiferenciaTotal,
			EstadoCuadre:    c.EstadoCuadre,
		}
		if nombre, ok := nombres[c.UsuarioID]; ok {
			resp.UsuarioNombre = &nombre
		}
		if c.Restaurante != nil {
			resp.RestauranteNombre = &c.Restaurante.NombreRestaurante
		}
		out[i] = resp
	}
	return out
}
