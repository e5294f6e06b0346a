package handler

import (
	"net/http"

	"minimarket/internal/dto"
	"minimarket/internal/middleware"
	"minimarket/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	reports service.ReportService
	alerts  service.AlertService
	audit   service.AuditService
}

func NewReportsHandler(reports service.ReportService, alerts service.AlertService, audit service.AuditService) *ReportsHandler {
	return &ReportsHandler{reports: reports, alerts: alerts, audit: audit}
}

// Dashboard godoc
// @Summary Resumen del día
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} report.Dashboard
// @Router /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Dashboard(c.Request.Context()))
}

// Sales godoc
// @Summary Resumen de ventas
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param range query string false "today | week | month | all"
// @Success 200 {object} dto.SalesReport
// @Router /v1/reports/sales [get]
func (h *ReportsHandler) Sales(c *gin.Context) {
	var q dto.ReportQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.reports.Sales(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profits godoc
// @Summary Rentabilidad
// @Description Totales, serie por periodo y ranking de productos.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "weekly | monthly | quarterly | yearly"
// @Param top    query int    false "Cantidad en el ranking"
// @Param by     query string false "quantity | profit | revenue"
// @Success 200 {object} dto.ProfitReport
// @Router /v1/reports/profits [get]
func (h *ReportsHandler) Profits(c *gin.Context) {
	var q dto.ReportQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.reports.Profits(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Inventory godoc
// @Summary Estado del inventario
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} report.Inventory
// @Router /v1/reports/inventory [get]
func (h *ReportsHandler) Inventory(c *gin.Context) {
	resp, err := h.reports.Inventory(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Products godoc
// @Summary Desempeño por producto
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProductsReport
// @Router /v1/reports/products [get]
func (h *ReportsHandler) Products(c *gin.Context) {
	resp, err := h.reports.Products(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Alerts ───────────────────────────────────────────────────────────────────

// Alerts godoc
// @Summary Alertas
// @Description Alertas de stock bajo y vencimiento calculadas, seguidas de las alertas registradas.
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AlertListResponse
// @Router /v1/alerts [get]
func (h *ReportsHandler) Alerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.alerts.List(c.Request.Context()))
}

// CreateAlert godoc
// @Summary Registrar alerta
// @Tags alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateAlertRequest true "Alerta"
// @Success 201 {object} model.Alert
// @Router /v1/alerts [post]
func (h *ReportsHandler) CreateAlert(c *gin.Context) {
	var req dto.CreateAlertRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, err := h.alerts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// MarkAlertRead godoc
// @Summary Marcar alerta como leída
// @Tags alerts
// @Security BearerAuth
// @Param id path string true "ID de la alerta"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/alerts/{id}/read [patch]
func (h *ReportsHandler) MarkAlertRead(c *gin.Context) {
	if err := h.alerts.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Audit ────────────────────────────────────────────────────────────────────

// Audit godoc
// @Summary Registro de auditoría
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param search query string false "Usuario o detalle"
// @Param entity query string false "product | sale | user | cash"
// @Param date   query string false "today | week | month | all"
// @Success 200 {object} dto.AuditListResponse
// @Router /v1/audit [get]
func (h *ReportsHandler) Audit(c *gin.Context) {
	var filter dto.AuditFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.audit.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
