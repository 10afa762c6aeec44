package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/authz"
)

// RequirePermissions gates a route on the resolver: the principal must match
// at least one of the required permissions. A resolver infrastructure failure
// maps to 503, never to 403.
func RequirePermissions(resolver *authz.Resolver, required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)

		decision, err := resolver.Authorize(c.Request.Context(), p, required)
		if err != nil {
			if errors.Is(err, authz.ErrStoreUnavailable) {
				log.Error().Err(err).
					Str("usuario_id", p.ID.String()).
					Strs("permisos", required).
					Msg("almacén de permisos no disponible")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable,
					apierror.New("Autorización no disponible, intenta de nuevo"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
			return
		}
		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(decision.Reason))
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to the administrative tiers (including
// custom roles flagged es_super_admin).
func RequireAdmin(resolver *authz.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)

		ok, err := resolver.IsAdminTier(c.Request.Context(), p)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				apierror.New("Autorización no disponible, intenta de nuevo"))
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.New("Esta operación requiere permisos de administrador"))
			return
		}
		c.Next()
	}
}
