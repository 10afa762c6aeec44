package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Permission{Kind: PermGlobal, Nombre: "*"}, Parse("*"))
	assert.Equal(t, Permission{Kind: PermResourceWildcard, Recurso: "caja", Nombre: "caja.*"}, Parse("caja.*"))
	assert.Equal(t, Permission{Kind: PermExact, Recurso: "caja", Nombre: "caja.abrir"}, Parse("caja.abrir"))
	assert.Equal(t, Permission{Kind: PermExact, Recurso: "reportes", Nombre: "reportes"}, Parse("reportes"))
}

func TestMatchedBy(t *testing.T) {
	cases := []struct {
		name     string
		required string
		granted  string
		want     bool
	}{
		{"global grants anything", "caja.abrir", "*", true},
		{"exact match", "caja.abrir", "caja.abrir", true},
		{"exact mismatch", "caja.abrir", "caja.cerrar", false},
		{"required wildcard satisfied by any action", "inventario.*", "inventario.ver", true},
		{"required wildcard other resource", "inventario.*", "caja.ver", false},
		{"granted wildcard covers actions", "caja.abrir", "caja.*", true},
		{"granted wildcard other resource", "caja.abrir", "inventario.*", false},
		{"resource prefix alone is not a match", "cajas.abrir", "caja.*", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.required).MatchedBy(Parse(tc.granted))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAnyMatches_WildcardScopesToResource(t *testing.T) {
	granted := ParseAll([]string{"inventario.*"})

	assert.True(t, AnyMatches(ParseAll([]string{"inventario.crear"}), granted))
	assert.True(t, AnyMatches(ParseAll([]string{"inventario.eliminar"}), granted))
	assert.False(t, AnyMatches(ParseAll([]string{"caja.abrir"}), granted))
	assert.False(t, AnyMatches(ParseAll([]string{"roles.crear"}), granted))
}

func TestAnyMatches_AnyOfSemantics(t *testing.T) {
	granted := ParseAll([]string{"caja.ver"})
	required := ParseAll([]string{"caja.abrir", "caja.ver"})

	assert.True(t, AnyMatches(required, granted))
}
