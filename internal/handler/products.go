package handler

import (
	"net/http"

	"minimarket/internal/dto"
	"minimarket/internal/middleware"
	"minimarket/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary      Listar productos
// @Description  Catálogo sincronizado con la base de productos. Búsqueda sin acentos por nombre, código o marca.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search    query string false "Texto a buscar"
// @Param        category  query string false "Categoría"
// @Param        low_stock query bool   false "Sólo stock bajo"
// @Param        sort      query string false "name"
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
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
// @Summary      Obtener producto
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID del producto"
// @Success      200 {object} model.Product
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create godoc
// @Summary      Crear producto
// @Description  Inserta en la base de productos y luego actualiza el catálogo local.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProductRequest true "Producto"
// @Success      201 {object} model.Product
// @Failure      422 {object} apierror.ValidationResponse
// @Failure      502 {object} apierror.APIError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "ID del producto"
// @Param        body body dto.ProductRequest true "Producto"
// @Success      200 {object} model.Product
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "ID del producto"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Kardex godoc
// @Summary      Kardex de inventario
// @Description  Movimientos de inventario valorizados al costo, del más reciente al más antiguo.
// @Tags         kardex
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "ID del producto"
// @Success      200 {object} dto.KardexResponse
// @Router       /v1/kardex [get]
func (h *ProductsHandler) Kardex(c *gin.Context) {
	resp, err := h.svc.Kardex(c.Request.Context(), c.Query("product_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
