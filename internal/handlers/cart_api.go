package handlers

import (
	"net/http"

	"storefront_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

type cartAddRequest struct {
	ProductID string `json:"product_id" form:"product_id"`
	Quantity  *int   `json:"quantity" form:"quantity"`
}

type cartUpdateRequest struct {
	Quantity *int    `json:"quantity" form:"quantity"`
	Product  *string `json:"product" form:"product"`
}

// GET /api/cart/
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.Cart.List(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// POST /api/cart/
func (h *Handler) AddToCart(c *gin.Context) {
	var req cartAddRequest
	if err := c.ShouldBind(&req); err != nil {
		if !middleware.CallerFrom(c).Authenticated() {
			h.respondError(c, errUnauthenticated)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	item, err := h.Cart.Add(c.Request.Context(), middleware.CallerFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Produit ajouté au panier", "item": item})
}

// PUT|PATCH /api/cart/:id/
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req cartUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		if !middleware.CallerFrom(c).Authenticated() {
			h.respondError(c, errUnauthenticated)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	item, err := h.Cart.Update(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Quantity, req.Product)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Panier modifié", "item": item})
}

// DELETE /api/cart/:id/ et POST /api/cart/:id/destroy/
func (h *Handler) RemoveCartItem(c *gin.Context) {
	if err := h.Cart.Remove(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Produit retiré du panier"})
}

// DELETE /api/cart/
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Cart.Clear(c.Request.Context(), middleware.CallerFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
