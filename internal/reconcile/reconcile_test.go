package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCuadrar_CajaCuadrada(t *testing.T) {
	res := Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("250"),
		GastosSistema:     dec("50"),
		TotalIngresos:     dec("0"),
		EfectivoDeclarado: dec("300"),
	})

	assert.True(t, res.EfectivoEsperado.Equal(dec("300")))
	assert.True(t, res.DiferenciaEfectivo.IsZero())
	assert.True(t, res.Cuadra)
	assert.Equal(t, EstadoCuadrada, res.EstadoCuadre)
	assert.Contains(t, res.Mensaje, "CAJA CUADRA EN 0")
}

func TestCuadrar_Faltante(t *testing.T) {
	res := Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("250"),
		GastosSistema:     dec("50"),
		EfectivoDeclarado: dec("280"),
	})

	assert.True(t, res.DiferenciaEfectivo.Equal(dec("-20")))
	assert.True(t, res.DiferenciaTotal.Equal(dec("-20")))
	assert.False(t, res.Cuadra)
	assert.Equal(t, EstadoDescuadrada, res.EstadoCuadre)
	assert.Contains(t, res.Mensaje, "faltante de $20.00")
}

func TestCuadrar_Sobrante(t *testing.T) {
	res := Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("200"),
		EfectivoDeclarado: dec("315.50"),
	})

	assert.True(t, res.DiferenciaTotal.Equal(dec("15.50")))
	assert.Contains(t, res.Mensaje, "sobrante de $15.50")
}

func TestCuadrar_ConceptoNoDeclaradoSeExcluye(t *testing.T) {
	// POS system total is 500 but the cashier declared nothing for POS.
	// The delta stays nil and must not unbalance the drawer.
	res := Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("200"),
		VentasPOS:         dec("500"),
		EfectivoDeclarado: dec("300"),
	})

	assert.Nil(t, res.DiferenciaPos)
	assert.True(t, res.Cuadra)
	assert.True(t, res.DiferenciaTotal.IsZero())
}

func TestCuadrar_ConceptoDeclaradoDescuadra(t *testing.T) {
	res := Cuadrar(Entrada{
		MontoInicial:        dec("100"),
		VentasEfectivo:      dec("200"),
		VentasPOS:           dec("500"),
		EfectivoDeclarado:   dec("300"),
		VentasPosDeclaradas: decPtr("480"),
	})

	require.NotNil(t, res.DiferenciaPos)
	assert.True(t, res.DiferenciaPos.Equal(dec("-20")))
	assert.False(t, res.Cuadra)
	assert.True(t, res.DiferenciaTotal.Equal(dec("-20")))
}

func TestCuadrar_IngresosManualesEntranAlEsperado(t *testing.T) {
	res := Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("250"),
		TotalIngresos:     dec("20"),
		EfectivoDeclarado: dec("370"),
	})

	assert.True(t, res.EfectivoEsperado.Equal(dec("370")))
	assert.True(t, res.Cuadra)
}

func TestCuadrar_GastosInviertenSigno(t *testing.T) {
	// Declaring more expenses than the system recorded reduces the net
	// difference instead of increasing it.
	res := Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("100"),
		GastosSistema:     dec("30"),
		EfectivoDeclarado: dec("170"),
		GastosDeclarados:  decPtr("40"),
	})

	require.NotNil(t, res.DiferenciaGastos)
	assert.True(t, res.DiferenciaGastos.Equal(dec("10")))
	assert.True(t, res.DiferenciaTotal.Equal(dec("-10")))
	assert.False(t, res.Cuadra)
}

func TestCuadrar_ToleranciaDeUnCentavo(t *testing.T) {
	res := Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("200"),
		EfectivoDeclarado: dec("300.01"),
	})
	assert.True(t, res.Cuadra)

	res = Cuadrar(Entrada{
		MontoInicial:      dec("100"),
		VentasEfectivo:    dec("200"),
		EfectivoDeclarado: dec("300.02"),
	})
	assert.False(t, res.Cuadra)
}

func TestCuadrar_TodosLosConceptosDeclarados(t *testing.T) {
	res := Cuadrar(Entrada{
		MontoInicial:                  dec("500"),
		VentasEfectivo:                dec("1200"),
		VentasPOS:                     dec("800"),
		VentasTransferencia:           dec("300"),
		GastosSistema:                 dec("150"),
		TotalIngresos:                 dec("50"),
		EfectivoDeclarado:             dec("1600"),
		VentasPosDeclaradas:           decPtr("800"),
		VentasTransferenciaDeclaradas: decPtr("300"),
		GastosDeclarados:              decPtr("150"),
		VentasEfectivoDeclaradas:      decPtr("1200"),
	})

	assert.True(t, res.EfectivoEsperado.Equal(dec("1600")))
	assert.True(t, res.Cuadra)
	for _, d := range []*decimal.Decimal{res.DiferenciaPos, res.DiferenciaTransf, res.DiferenciaGastos, res.DiferenciaVentasEf} {
		require.NotNil(t, d)
		assert.True(t, d.IsZero())
	}
}
