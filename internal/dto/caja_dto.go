package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AbrirCajaRequest abre una sesión de caja para un restaurante.
type AbrirCajaRequest struct {
	RestauranteID string          `json:"restaurante_id" validate:"required,uuid"`
	MontoInicial  decimal.Decimal `json:"monto_inicial"  validate:"min=0"`
	Observaciones *string         `json:"observaciones,omitempty"`
}

// ActualizarCajaRequest registra ingresos o egresos manuales sobre la sesión
// abierta. Los campos ausentes no se tocan.
type ActualizarCajaRequest struct {
	TotalIngresos *decimal.Decimal `json:"total_ingresos,omitempty" validate:"omitempty,min=0"`
	TotalEgresos  *decimal.Decimal `json:"total_egresos,omitempty"  validate:"omitempty,min=0"`
	Observaciones *string          `json:"observaciones,omitempty"`
}

// CerrarCajaRequest declara los montos contados al cierre. Solo el efectivo
// es obligatorio; los demás conceptos participan del cuadre únicamente si se
// declaran.
type CerrarCajaRequest struct {
	MontoFinal                    *decimal.Decimal `json:"monto_final" validate:"required,min=0"`
	VentasPosReportadas           *decimal.Decimal `json:"ventas_pos_reportadas,omitempty" validate:"omitempty,min=0"`
	VentasTransferenciaReportadas *decimal.Decimal `json:"ventas_transferencia_reportadas,omitempty" validate:"omitempty,min=0"`
	GastosReportados              *decimal.Decimal `json:"gastos_reportados,omitempty" validate:"omitempty,min=0"`
	VentasEfectivoReportadas      *decimal.Decimal `json:"ventas_efectivo_reportadas,omitempty" validate:"omitempty,min=0"`
	Observaciones                 *string          `json:"observaciones,omitempty"`
}

// CajaResponse es la representación de una sesión de caja hacia afuera. Los
// nombres de usuario y restaurante son enriquecimiento best-effort.
type CajaResponse struct {
	ID            string          `json:"id"`
	RestauranteID string          `json:"restaurante_id"`
	UsuarioID     string          `json:"usuario_id"`
	Estado        string          `json:"estado"`
	MontoInicial  decimal.Decimal `json:"monto_inicial"`
	FechaApertura time.Time       `json:"fecha_apertura"`
	FechaCierre   *time.Time      `json:"fecha_cierre,omitempty"`
	TotalIngresos decimal.Decimal `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal `json:"total_egresos"`
	Observaciones *string         `json:"observaciones,omitempty"`

	MontoFinal        *decimal.Decimal `json:"monto_final,omitempty"`
	TotalVentas       *decimal.Decimal `json:"total_ventas,omitempty"`
	EfectivoSistema   *decimal.Decimal `json:"efectivo_sistema,omitempty"`
	DiferenciaTotal   *decimal.Decimal `json:"diferencia_total,omitempty"`
	EstadoCuadre      *string          `json:"estado_cuadre,omitempty"`
	UsuarioNombre     *string          `json:"usuario_nombre,omitempty"`
	RestauranteNombre *string          `json:"restaurante_nombre,omitempty"`
}

// ValidacionCierre detalla el cuadre concepto por concepto.
type ValidacionCierre struct {
	EfectivoEsperado      decimal.Decimal  `json:"efectivo_esperado"`
	EfectivoDeclarado     decimal.Decimal  `json:"efectivo_declarado"`
	DiferenciaEfectivo    decimal.Decimal  `json:"diferencia_efectivo"`
	DiferenciaPos         *decimal.Decimal `json:"diferencia_pos,omitempty"`
	DiferenciaTransf      *decimal.Decimal `json:"diferencia_transferencia,omitempty"`
	DiferenciaGastos      *decimal.Decimal `json:"diferencia_gastos,omitempty"`
	DiferenciaVentasEfect *decimal.Decimal `json:"diferencia_ventas_efectivo,omitempty"`
	DiferenciaTotal       decimal.Decimal  `json:"diferencia_total"`
	Cuadra                bool             `json:"cuadra"`
	Mensaje               string           `json:"mensaje"`
}

// CierreCajaResponse es la respuesta del cierre: la sesión ya cerrada más el
// detalle del cuadre.
type CierreCajaResponse struct {
	Data       CajaResponse     `json:"data"`
	Validacion ValidacionCierre `json:"validacion"`
}

// VentasPorMetodo agrupa ventas pagadas por método de pago.
type VentasPorMetodo struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	POS           decimal.Decimal `json:"pos"`
	Transferencia decimal.Decimal `json:"transferencia"`
	Total         decimal.Decimal `json:"total"`
}

// GastoResponse es un gasto individual dentro del resumen.
type GastoResponse struct {
	ID          string          `json:"id"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion *string         `json:"descripcion,omitempty"`
	FechaGasto  time.Time       `json:"fecha_gasto"`
}

// ResumenCajaResponse es la vista en vivo de la sesión abierta. Caja viene en
// null cuando no hay sesión abierta y los totales quedan en cero.
type ResumenCajaResponse struct {
	Caja             *CajaResponse   `json:"caja"`
	Ventas           VentasPorMetodo `json:"ventas"`
	Gastos           decimal.Decimal `json:"gastos"`
	GastosDetalle    []GastoResponse `json:"gastos_detalle"`
	EfectivoEsperado decimal.Decimal `json:"efectivo_esperado"`
}

// CajaFilter pagina y filtra el historial de sesiones.
type CajaFilter struct {
	Page          int        `form:"page,default=1" validate:"omitempty,min=1"`
	Limit         int        `form:"limit,default=20" validate:"omitempty,min=1,max=100"`
	Estado        string     `form:"estado" validate:"omitempty,oneof=abierta cerrada"`
	RestauranteID string     `form:"restaurante_id" validate:"omitempty,uuid"`
	FechaDesde    *time.Time `form:"fecha_desde" time_format:"2006-01-02"`
	FechaHasta    *time.Time `form:"fecha_hasta" time_format:"2006-01-02"`
}

// ListCajasResponse pagina el historial.
type ListCajasResponse struct {
	Data  []CajaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
