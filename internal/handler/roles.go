package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lazarohernan/ezorder-backend/internal/apierror"
	"github.com/lazarohernan/ezorder-backend/internal/dto"
	"github.com/lazarohernan/ezorder-backend/internal/middleware"
	"github.com/lazarohernan/ezorder-backend/internal/service"
)

type RolHandler struct{ svc service.RolService }

func NewRolHandler(svc service.RolService) *RolHandler { return &RolHandler{svc: svc} }

func parseRolID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id de rol inválido"))
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary Lista los roles personalizados con sus permisos
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RolResponse
// @Router /v1/roles [get]
func (h *RolHandler) List(c *gin.Context) {
	roles, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Get godoc
// @Summary Obtiene un rol por id
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del rol"
// @Success 200 {object} dto.RolResponse
// @Router /v1/roles/{id} [get]
func (h *RolHandler) Get(c *gin.Context) {
	id, ok := parseRolID(c)
	if !ok {
		return
	}
	rol, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rol)
}

// Create godoc
// @Summary Crea un rol personalizado
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateRolRequest true "Datos del rol"
// @Success 201 {object} dto.RolResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/roles [post]
func (h *RolHandler) Create(c *gin.Context) {
	var req dto.CreateRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rol, err := h.svc.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rol)
}

// Update godoc
// @Summary Actualiza un rol; si envía permisos, reemplaza el conjunto completo
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del rol"
// @Param body body dto.UpdateRolRequest true "Cambios"
// @Success 200 {object} dto.RolResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/roles/{id} [put]
func (h *RolHandler) Update(c *gin.Context) {
	id, ok := parseRolID(c)
	if !ok {
		return
	}
	var req dto.UpdateRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rol, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rol)
}

// Delete godoc
// @Summary Elimina un rol sin usuarios asignados
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del rol"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/roles/{id} [delete]
func (h *RolHandler) Delete(c *gin.Context) {
	id, ok := parseRolID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPermisos godoc
// @Summary Catálogo de permisos agrupado por tipo y categoría
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PermisosAgrupados
// @Router /v1/roles/permisos [get]
func (h *RolHandler) ListPermisos(c *gin.Context) {
	permisos, err := h.svc.ListPermisos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, permisos)
}

// MisPermisos godoc
// @Summary Permisos efectivos del usuario autenticado
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MisPermisosResponse
// @Router /v1/mis-permisos [get]
func (h *RolHandler) MisPermisos(c *gin.Context) {
	resp, err := h.svc.MisPermisos(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
