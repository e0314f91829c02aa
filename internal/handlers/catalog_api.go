package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/products/?category=<id>
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.Catalog.Shop(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GET /api/products/:id/
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.Catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/products/:id/image redirige vers une URL signée.
func (h *Handler) ProductImage(c *gin.Context) {
	link, err := h.Catalog.ImageLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, link)
}

// GET /api/search?q=
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	results, err := h.Catalog.Search(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results, "count": len(results)})
}

// GET /api/categories/
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}
