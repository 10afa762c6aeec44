package router

import (
	"time"

	"github.com/lazarohernan/ezorder-backend/internal/authz"
	"github.com/lazarohernan/ezorder-backend/internal/config"
	"github.com/lazarohernan/ezorder-backend/internal/handler"
	"github.com/lazarohernan/ezorder-backend/internal/infra"
	"github.com/lazarohernan/ezorder-backend/internal/middleware"
	"github.com/lazarohernan/ezorder-backend/internal/repository"
	"github.com/lazarohernan/ezorder-backend/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, dbs *infra.Databases, rdb *redis.Client, mailerCB *infra.CircuitBreaker, notifier service.CierreNotifier) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(200, time.Minute)) // 200 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	// El pool admin salta RLS; el scoped respeta las políticas por restaurante.
	usuarioRepo := repository.NewUsuarioRepository(dbs.Scoped)
	cajaRepo := repository.NewCajaRepository(dbs.Scoped)
	ledgerRepo := repository.NewLedgerRepository(dbs.Scoped)
	rolRepo := repository.NewRolRepository(dbs.Admin)

	// ── Authorization ────────────────────────────────────────────────────────
	// Permisos por rol con caché read-through en Redis; la invalidación la
	// dispara el servicio de roles al crear/editar/borrar.
	permStore := authz.NewCachedStore(rolRepo, rdb, time.Duration(cfg.PermisosCacheTTLSeconds)*time.Second)
	resolver := authz.NewResolver(permStore)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo, ledgerRepo, usuarioRepo, notifier)
	rolSvc := service.NewRolService(rolRepo, usuarioRepo, resolver, permStore)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	rolesH := handler.NewRolHandler(rolSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(dbs.Admin, rdb, mailerCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequirePermissions(resolver, "caja.abrir"), cajaH.Abrir)
			caja.PATCH("/:id", middleware.RequirePermissions(resolver, "caja.registrar_ingresos"), cajaH.Actualizar)
			caja.POST("/:id/cerrar", middleware.RequirePermissions(resolver, "caja.cerrar"), cajaH.Cerrar)
			caja.GET("/actual/:restaurante_id", middleware.RequirePermissions(resolver, "caja.ver"), cajaH.GetActual)
			caja.GET("/resumen/:restaurante_id", middleware.RequirePermissions(resolver, "caja.ver"), cajaH.GetResumen)
			caja.GET("/:id", middleware.RequirePermissions(resolver, "caja.ver"), cajaH.GetByID)
			// Listados globales — sólo administradores
			caja.GET("", middleware.RequireAdmin(resolver), cajaH.List)
			caja.GET("/abiertas", middleware.RequireAdmin(resolver), cajaH.ListAbiertas)
		}

		roles := v1.Group("/roles", middleware.RequireAdmin(resolver))
		{
			roles.GET("", rolesH.List)
			roles.GET("/permisos", rolesH.ListPermisos)
			roles.GET("/:id", rolesH.Get)
			roles.POST("", rolesH.Create)
			roles.PUT("/:id", rolesH.Update)
			roles.DELETE("/:id", rolesH.Delete)
		}

		// Cualquier usuario autenticado puede consultar sus propios permisos
		v1.GET("/mis-permisos", rolesH.MisPermisos)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
