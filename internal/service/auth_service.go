package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/config"
	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/model"
	"github.com/lazarohernan/ezorder-backend/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	usuarios repository.UsuarioRepository
	cfg      *config.Config
}

func NewAuthService(usuarios repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{usuarios: usuarios, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.usuarios.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apierror.Unauthenticated("credenciales inválidas")
	}
	if !user.Activo {
		return nil, apierror.Unauthenticated("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthenticated("credenciales inválidas")
	}
	return s.buildLoginResponse(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Unauthenticated("refresh token inválido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthenticated("token mal formado")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apierror.Unauthenticated("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apierror.Unauthenticated("token mal formado")
	}

	user, err := s.usuarios.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, apierror.Unauthenticated("usuario no encontrado o inactivo")
	}
	return s.buildLoginResponse(user)
}

func (s *authService) buildLoginResponse(user *model.UsuarioInfo) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, apierror.Internal("no se pudo generar el token")
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, apierror.Internal("no se pudo generar el token")
	}

	resp := &dto.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWTExpirationHours) * 3600,
		Usuario: dto.UsuarioResponse{
			ID:            user.ID.String(),
			Email:         user.Email,
			NombreUsuario: user.NombreUsuario,
			RolID:         user.RolID,
			EsSuperAdmin:  user.EsSuperAdmin,
		},
	}
	if user.RestauranteID != nil {
		restID := user.RestauranteID.String()
		resp.Usuario.RestauranteID = &restID
	}
	return resp, nil
}

func (s *authService) generateToken(user *model.UsuarioInfo, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":        user.ID.String(),
		"email":          user.Email,
		"rol_id":         user.RolID,
		"es_super_admin": user.EsSuperAdmin,
		"exp":            time.Now().Add(duration).Unix(),
		"iat":            time.Now().Unix(),
	}
	if user.RolPersonalizadoID != nil {
		claims["rol_personalizado_id"] = *user.RolPersonalizadoID
	}
	if user.RestauranteID != nil {
		claims["restaurante_id"] = user.RestauranteID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
