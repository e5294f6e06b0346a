package handler

import (
	"net/http"
	"strconv"

	"minimarket/internal/dto"
	"minimarket/internal/middleware"
	"minimarket/internal/service"

	"github.com/gin-gonic/gin"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

// Open godoc
// @Summary Abrir caja
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Monto inicial"
// @Success 201 {object} dto.CashReport
// @Failure 422 {object} apierror.APIError
// @Router /v1/cash/open [post]
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Cerrar caja
// @Description Cierra la sesión activa. Con un conteo declarado calcula el desvío contra el efectivo esperado.
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseSessionRequest false "Conteo declarado"
// @Success 200 {object} dto.CashReport
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash/close [post]
func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Active godoc
// @Summary Caja activa
// @Description Devuelve 204 cuando no hay una caja abierta.
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CashReport
// @Success 204
// @Router /v1/cash/active [get]
func (h *CashHandler) Active(c *gin.Context) {
	resp, err := h.svc.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Historial de cajas
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param page  query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} dto.CashHistoryResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/cash/history [get]
func (h *CashHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.History(c.Request.Context(), middleware.GetActor(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary Reporte de una caja
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sesión"
// @Success 200 {object} dto.CashReport
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash/{id}/report [get]
func (h *CashHandler) Report(c *gin.Context) {
	resp, err := h.svc.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
