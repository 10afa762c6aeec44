package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInicioYFinDelDia(t *testing.T) {
	// 2026-03-15 20:30 en Tegucigalpa (UTC-6) == 2026-03-16 02:30 UTC
	instante := time.Date(2026, 3, 16, 2, 30, 0, 0, time.UTC)

	inicio := InicioDelDia(instante)
	assert.Equal(t, 2026, inicio.Year())
	assert.Equal(t, time.March, inicio.Month())
	assert.Equal(t, 15, inicio.Day())
	assert.Equal(t, 0, inicio.Hour())

	fin := FinDelDia(instante)
	assert.Equal(t, 15, fin.Day())
	assert.Equal(t, 23, fin.Hour())
	assert.Equal(t, 59, fin.Minute())
	assert.True(t, fin.After(inicio))
}

func TestMismoDia_CruceDeMedianocheUTC(t *testing.T) {
	// Ambos instantes caen el mismo día civil en Tegucigalpa aunque en UTC
	// pertenezcan a fechas distintas.
	a := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC) // 17:00 local del 15
	b := time.Date(2026, 3, 16, 3, 0, 0, 0, time.UTC)  // 21:00 local del 15
	assert.True(t, MismoDia(a, b))

	c := time.Date(2026, 3, 16, 7, 0, 0, 0, time.UTC) // 01:00 local del 16
	assert.False(t, MismoDia(a, c))
}

func TestLocation_SinDST(t *testing.T) {
	verano := time.Date(2026, 7, 1, 12, 0, 0, 0, Location())
	invierno := time.Date(2026, 1, 1, 12, 0, 0, 0, Location())
	_, offVerano := verano.Zone()
	_, offInvierno := invierno.Zone()
	assert.Equal(t, -6*60*60, offVerano)
	assert.Equal(t, offVerano, offInvierno)
}
