// Package authz resolves whether a principal may perform an action.
//
// Permissions are strings of the form "<recurso>.<accion>" ("caja.abrir"),
// "<recurso>.*" (every action on a resource) or "*" (everything). They are
// parsed into a small tagged type so the matching rules live in one pure,
// testable function instead of ad-hoc prefix checks.
package authz

import "strings"

// PermKind discriminates the three permission shapes.
type PermKind int

const (
	PermExact PermKind = iota
	PermResourceWildcard
	PermGlobal
)

// Permission is a parsed permission token.
type Permission struct {
	Kind PermKind
	// Recurso is the segment before the first dot ("caja" in "caja.abrir").
	Recurso string
	// Nombre is the original token, kept for exact comparison.
	Nombre string
}

// Parse classifies a raw permission string.
func Parse(s string) Permission {
	switch {
	case s == "*":
		return Permission{Kind: PermGlobal, Nombre: s}
	case strings.HasSuffix(s, ".*"):
		return Permission{Kind: PermResourceWildcard, Recurso: strings.TrimSuffix(s, ".*"), Nombre: s}
	default:
		recurso := s
		if i := strings.Index(s, "."); i >= 0 {
			recurso = s[:i]
		}
		return Permission{Kind: PermExact, Recurso: recurso, Nombre: s}
	}
}

// ParseAll parses a slice of raw permission strings.
func ParseAll(raw []string) []Permission {
	perms := make([]Permission, len(raw))
	for i, s := range raw {
		perms[i] = Parse(s)
	}
	return perms
}

// MatchedBy reports whether a granted permission satisfies the required one:
//   - a global grant satisfies anything
//   - an exact grant satisfies the identical token
//   - a required "recurso.*" is satisfied by any grant on that resource
//   - a granted "recurso.*" satisfies any required action on that resource
func (required Permission) MatchedBy(granted Permission) bool {
	if granted.Kind == PermGlobal {
		return true
	}
	if granted.Nombre == required.Nombre {
		return true
	}
	if required.Kind == PermResourceWildcard && strings.HasPrefix(granted.Nombre, required.Recurso+".") {
		return true
	}
	if granted.Kind == PermResourceWildcard && strings.HasPrefix(required.Nombre, granted.Recurso+".") {
		return true
	}
	return false
}

// AnyMatches reports whether any required permission is satisfied by any
// granted permission.
func AnyMatches(required, granted []Permission) bool {
	for _, req := range required {
		for _, g := range granted {
			if req.MatchedBy(g) {
				return true
			}
		}
	}
	return false
}
