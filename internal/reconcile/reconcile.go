// Package reconcile implements the cash-drawer closing arithmetic. It is a
// pure calculation over decimal amounts; reading ledgers and persisting the
// verdict belong to the caja service.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tolerancia is the absolute difference, per concept, under which the drawer
// still counts as balanced. Covers rounding on card fees and small change.
var Tolerancia = decimal.RequireFromString("0.01")

// Verdict labels persisted with the closed session.
const (
	EstadoCuadrada    = "cuadrada"
	EstadoDescuadrada = "descuadrada"
)

// Entrada carries everything the reconciliation needs: system-side totals
// from the ledgers and the amounts the cashier declared. Optional declared
// fields are nil when the cashier did not report that concept; those concepts
// are excluded from the verdict.
type Entrada struct {
	MontoInicial        decimal.Decimal
	VentasEfectivo      decimal.Decimal
	VentasPOS           decimal.Decimal
	VentasTransferencia decimal.Decimal
	GastosSistema       decimal.Decimal
	TotalIngresos       decimal.Decimal

	EfectivoDeclarado             decimal.Decimal
	VentasPosDeclaradas           *decimal.Decimal
	VentasTransferenciaDeclaradas *decimal.Decimal
	GastosDeclarados              *decimal.Decimal
	VentasEfectivoDeclaradas      *decimal.Decimal
}

// Resultado is the full reconciliation outcome. Nil deltas mean the concept
// was not declared and did not participate in the verdict.
type Resultado struct {
	EfectivoEsperado   decimal.Decimal
	DiferenciaEfectivo decimal.Decimal
	DiferenciaPos      *decimal.Decimal
	DiferenciaTransf   *decimal.Decimal
	DiferenciaGastos   *decimal.Decimal
	DiferenciaVentasEf *decimal.Decimal
	DiferenciaTotal    decimal.Decimal
	Cuadra             bool
	EstadoCuadre       string
	Mensaje            string
}

// Cuadrar runs the reconciliation.
//
// Expected cash is opening amount plus cash sales plus manual income minus
// expenses. Every delta is declared minus system. The drawer balances only
// when every declared concept is within Tolerancia.
func Cuadrar(in Entrada) Resultado {
	esperado := in.MontoInicial.
		Add(in.VentasEfectivo).
		Add(in.TotalIngresos).
		Sub(in.GastosSistema)

	difEfectivo := in.EfectivoDeclarado.Sub(esperado)

	difPos := deltaOpcional(in.VentasPosDeclaradas, in.VentasPOS)
	difTransf := deltaOpcional(in.VentasTransferenciaDeclaradas, in.VentasTransferencia)
	difGastos := deltaOpcional(in.GastosDeclarados, in.GastosSistema)
	difVentasEf := deltaOpcional(in.VentasEfectivoDeclaradas, in.VentasEfectivo)

	cuadra := difEfectivo.Abs().LessThanOrEqual(Tolerancia) &&
		dentroDeTolerancia(difPos) &&
		dentroDeTolerancia(difTransf) &&
		dentroDeTolerancia(difGastos) &&
		dentroDeTolerancia(difVentasEf)

	// Net signed difference. Expense overdeclaration reduces the drawer, so
	// it enters with inverted sign.
	total := difEfectivo.
		Add(oCero(difPos)).
		Add(oCero(difTransf)).
		Sub(oCero(difGastos))

	res := Resultado{
		EfectivoEsperado:   esperado,
		DiferenciaEfectivo: difEfectivo,
		DiferenciaPos:      difPos,
		DiferenciaTransf:   difTransf,
		DiferenciaGastos:   difGastos,
		DiferenciaVentasEf: difVentasEf,
		DiferenciaTotal:    total,
		Cuadra:             cuadra,
	}
	if cuadra {
		res.EstadoCuadre = EstadoCuadrada
		res.Mensaje = "✅ CAJA CUADRA EN 0 - Los montos coinciden correctamente"
	} else {
		res.EstadoCuadre = EstadoDescuadrada
		res.Mensaje = fmt.Sprintf("⚠️ CAJA NO CUADRA - Se detectó un %s de $%s",
			sobranteOFaltante(total), total.Abs().StringFixed(2))
	}
	return res
}

func deltaOpcional(declarado *decimal.Decimal, sistema decimal.Decimal) *decimal.Decimal {
	if declarado == nil {
		return nil
	}
	d := declarado.Sub(sistema)
	return &d
}

func dentroDeTolerancia(d *decimal.Decimal) bool {
	return d == nil || d.Abs().LessThanOrEqual(Tolerancia)
}

func oCero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func sobranteOFaltante(total decimal.Decimal) string {
	if total.IsNegative() {
		return "faltante"
	}
	return "sobrante"
}
