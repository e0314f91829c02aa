package handlers

import (
	"net/http"

	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

type wishlistAddRequest struct {
	Product string `json:"product" form:"product"`
}

// GET /api/wishlist/
func (h *Handler) GetWishlist(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	products, err := h.Wishlist.List(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Wishlist{UserID: caller.UserID, Items: products})
}

// POST /api/wishlist/ : 201 dans les deux cas, "result" distingue created et already_exists.
func (h *Handler) AddToWishlist(c *gin.Context) {
	var req wishlistAddRequest
	// un corps illisible équivaut à un "product" absent
	_ = c.ShouldBind(&req)

	res, err := h.Wishlist.Add(c.Request.Context(), middleware.CallerFrom(c), req.Product)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": res.Message(), "result": res.String()})
}

// POST /api/wishlist/:id/destroy/ et DELETE /api/wishlist/:id/
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	if err := h.Wishlist.Remove(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré de la wishlist"})
}
