package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UsuarioResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	NombreUsuario string  `json:"nombre_usuario"`
	RolID         int     `json:"rol_id"`
	EsSuperAdmin  bool    `json:"es_super_admin"`
	RestauranteID *string `json:"restaurante_id,omitempty"`
}

type LoginResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"`
	Usuario      UsuarioResponse `json:"usuario"`
}
