package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/middleware"
	"github.com/lazarohernan/ezorder-backend/internal/service"
	"github.com/lazarohernan/ezorder-backend/internal/timeutil"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre una sesión de caja para un restaurante
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.CajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Registra ingresos o egresos manuales sobre la caja abierta
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Param body body dto.ActualizarCajaRequest true "Ajustes"
// @Success 200 {object} dto.CajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/{id} [patch]
func (h *CajaHandler) Actualizar(c *gin.Context) {
	cajaID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetPrincipal(c), cajaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar godoc
// @Summary Cierra la caja y ejecuta el cuadre contra ventas y gastos
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Param body body dto.CerrarCajaRequest true "Montos declarados"
// @Success 200 {object} dto.CierreCajaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 503 {object} apierror.APIError
// @Router /v1/caja/{id}/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	cajaID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), middleware.GetPrincipal(c), cajaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActual godoc
// @Summary Obtiene la caja abierta de un restaurante (null si no hay ninguna)
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param restaurante_id path string true "ID del restaurante"
// @Success 200 {object} dto.CajaResponse
// @Router /v1/caja/actual/{restaurante_id} [get]
func (h *CajaHandler) GetActual(c *gin.Context) {
	restauranteID, ok := parseUUIDParam(c, "restaurante_id")
	if !ok {
		return
	}
	resp, err := h.svc.GetActual(c.Request.Context(), middleware.GetPrincipal(c), restauranteID)
	if err != nil {
		respondError(c, err)
		return
	}
	// resp es nil cuando no hay caja abierta; el cliente recibe 200 con null.
	c.JSON(http.StatusOK, resp)
}

// GetResumen godoc
// @Summary Resumen en vivo de la caja abierta (ventas, gastos, efectivo esperado)
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param restaurante_id path string true "ID del restaurante"
// @Param fecha query string false "Día del resumen (YYYY-MM-DD); por defecto el de la sesión"
// @Success 200 {object} dto.ResumenCajaResponse
// @Router /v1/caja/resumen/{restaurante_id} [get]
func (h *CajaHandler) GetResumen(c *gin.Context) {
	restauranteID, ok := parseUUIDParam(c, "restaurante_id")
	if !ok {
		return
	}
	var fecha *time.Time
	if raw := c.Query("fecha"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, timeutil.Location())
		if err != nil {
			respondError(c, apierror.Validation("fecha inválida, se espera el formato YYYY-MM-DD"))
			return
		}
		fecha = &t
	}
	resp, err := h.svc.GetResumen(c.Request.Context(), middleware.GetPrincipal(c), restauranteID, fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary Obtiene una caja por id
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Success 200 {object} dto.CajaResponse
// @Router /v1/caja/{id} [get]
func (h *CajaHandler) GetByID(c *gin.Context) {
	cajaID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), middleware.GetPrincipal(c), cajaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Historial de cajas con filtros y paginación
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param estado query string false "abierta | cerrada"
// @Param restaurante_id query string false "ID del restaurante"
// @Success 200 {object} dto.ListCajasResponse
// @Router /v1/caja [get]
func (h *CajaHandler) List(c *gin.Context) {
	var filter dto.CajaFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.GetPrincipal(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAbiertas godoc
// @Summary Cajas abiertas en los restaurantes visibles para el usuario
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CajaResponse
// @Router /v1/caja/abiertas [get]
func (h *CajaHandler) ListAbiertas(c *gin.Context) {
	resp, err := h.svc.ListAbiertas(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
