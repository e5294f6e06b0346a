package handler

import (
	"fmt"
	"net/http"

	"minimarket/internal/dto"
	"minimarket/internal/middleware"
	"minimarket/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	svc      service.SaleService
	receipts service.ReceiptService
}

func NewSalesHandler(svc service.SaleService, receipts service.ReceiptService) *SalesHandler {
	return &SalesHandler{svc: svc, receipts: receipts}
}

// Process godoc
// @Summary      Registrar una venta
// @Description  Valida sesión de caja, carrito y número de operación, descuenta stock en la base de productos y registra la venta con su kardex.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcessSaleRequest true "Detalle de la venta"
// @Success      201  {object} model.Sale
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Failure      502  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Process(c *gin.Context) {
	var req dto.ProcessSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.Process(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// List godoc
// @Summary      Listar ventas
// @Description  Historial de ventas, de la más reciente a la más antigua, con el monto total del filtro.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        search         query string false "Número, cliente o documento"
// @Param        date           query string false "today | week | month | all"
// @Param        payment_method query string false "Método de pago"
// @Param        page           query int    false "Página"
// @Param        limit          query int    false "Tamaño de página"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Obtener venta
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID o número de venta"
// @Success      200 {object} model.Sale
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	sale, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Receipt godoc
// @Summary      Comprobante de la venta
// @Description  Boleta o factura en HTML imprimible, texto para ticketera o PDF.
// @Tags         sales
// @Produce      html
// @Produce      plain
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id      path  string true  "ID o número de venta"
// @Param        variant query string false "receipt | invoice"
// @Param        format  query string false "html | text | pdf"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	doc, err := h.receipts.Render(c.Request.Context(), c.Param("id"), c.Query("variant"), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	if doc.ContentType == "application/pdf" {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Sale.SaleNumber+".pdf"))
	}
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
