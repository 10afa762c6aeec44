package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/authz"
)

const PrincipalKey = "principal"

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID             string `json:"user_id"`
	Email              string `json:"email"`
	RolID              int    `json:"rol_id"`
	EsSuperAdmin       bool   `json:"es_super_admin"`
	RolPersonalizadoID *int64 `json:"rol_personalizado_id,omitempty"`
	RestauranteID      string `json:"restaurante_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token and stores a parsed authz.Principal in
// the context. Malformed ids inside a validly-signed token still reject the
// request: nothing downstream should have to re-parse claims.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}

		principal, err := principalFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

func principalFromClaims(claims *JWTClaims) (authz.Principal, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return authz.Principal{}, err
	}
	p := authz.Principal{
		ID:                 userID,
		Email:              claims.Email,
		RolID:              claims.RolID,
		EsSuperAdmin:       claims.EsSuperAdmin,
		RolPersonalizadoID: claims.RolPersonalizadoID,
	}
	if claims.RestauranteID != "" {
		restID, err := uuid.Parse(claims.RestauranteID)
		if err != nil {
			return authz.Principal{}, err
		}
		p.RestauranteID = &restID
	}
	return p, nil
}

// GetPrincipal retrieves the authenticated principal from the Gin context.
func GetPrincipal(c *gin.Context) authz.Principal {
	p, _ := c.MustGet(PrincipalKey).(authz.Principal)
	return p
}
