package handler

import (
	"net/http"

	"minimarket/internal/dto"
	"minimarket/internal/middleware"
	"minimarket/internal/service"

	"github.com/gin-gonic/gin"
)

type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler { return &CartHandler{svc: svc} }

// Get godoc
// @Summary Carrito del usuario
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CartResponse
// @Router /v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Get(c.Request.Context(), middleware.GetActor(c)))
}

// AddItem godoc
// @Summary Agregar producto al carrito
// @Description Agrega una unidad. Si el producto ya está en el carrito incrementa la cantidad.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AddCartItemRequest true "Producto"
// @Success 200 {object} dto.CartResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), middleware.GetActor(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItem godoc
// @Summary Cambiar cantidad
// @Description Una cantidad de cero o menos quita la línea.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id   path string                    true "ID de la línea"
// @Param body body dto.UpdateCartItemRequest true "Cantidad"
// @Success 200 {object} dto.CartResponse
// @Router /v1/cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary Quitar línea
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la línea"
// @Success 200 {object} dto.CartResponse
// @Router /v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	resp, err := h.svc.RemoveItem(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Clear godoc
// @Summary Vaciar carrito
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CartResponse
// @Router /v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Clear(c.Request.Context(), middleware.GetActor(c)))
}

// SetCheckoutInfo godoc
// @Summary Datos de pago y cliente
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CheckoutInfoRequest true "Pago y cliente"
// @Success 200 {object} dto.CartResponse
// @Router /v1/cart/checkout-info [put]
func (h *CartHandler) SetCheckoutInfo(c *gin.Context) {
	var req dto.CheckoutInfoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.SetCheckoutInfo(c.Request.Context(), middleware.GetActor(c), req))
}

// Checkout godoc
// @Summary Cobrar carrito
// @Description Registra la venta con el contenido del carrito. El carrito se vacía sólo si la venta se registra.
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 201 {object} model.Sale
// @Failure 409 {object} apierror.APIError
// @Failure 502 {object} apierror.APIError
// @Router /v1/cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	sale, err := h.svc.Checkout(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}
