package handlers

import (
	"net/http"
	"strconv"

	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const maxImageSize = 10 << 20

type categoryRequest struct {
	Name string `json:"name"`
}

// audit trace une action admin ; sans Trail configuré, ne fait rien.
func (h *Handler) audit(c *gin.Context, action, resource, resourceID string, err error) {
	if h.Audit == nil {
		return
	}
	req := audit.Request{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	h.Audit.Record(middleware.CallerFrom(c), req, action, resource, resourceID, err)
}

// createdID vaut "" quand la création a échoué.
func createdID(id gocql.UUID) string {
	if id == (gocql.UUID{}) {
		return ""
	}
	return id.String()
}

// --- Catégories ---

func (h *Handler) AdminCategories(c *gin.Context) {
	h.ListCategories(c)
}

func (h *Handler) AdminCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	cat, err := h.Catalog.CreateCategory(c.Request.Context(), req.Name)
	h.audit(c, audit.ActionCategoryCreate, audit.ResourceCategory, createdID(cat.ID), err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// --- Produits ---

func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	p, err := h.Catalog.CreateProduct(c.Request.Context(), in)
	h.audit(c, audit.ActionProductCreate, audit.ResourceProduct, createdID(p.ID), err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	p, err := h.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	h.audit(c, audit.ActionProductUpdate, audit.ResourceProduct, c.Param("id"), err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id"))
	h.audit(c, audit.ActionProductDelete, audit.ResourceProduct, c.Param("id"), err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// AdminUploadImage attend un champ multipart "image".
func (h *Handler) AdminUploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune image fournie"})
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop volumineuse (10 Mo max)"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier illisible"})
		return
	}
	defer f.Close()

	p, err := h.Catalog.AttachImage(c.Request.Context(), c.Param("id"), file.Filename, f, file.Size, file.Header.Get("Content-Type"))
	h.audit(c, audit.ActionProductImage, audit.ResourceProduct, c.Param("id"), err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- Réductions ---

func (h *Handler) AdminListDiscounts(c *gin.Context) {
	ds, err := h.Catalog.Discounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": ds})
}

func (h *Handler) AdminCreateDiscount(c *gin.Context) {
	var in catalog.DiscountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	d, err := h.Catalog.CreateDiscount(c.Request.Context(), c.Param("id"), in)
	h.audit(c, audit.ActionDiscountCreate, audit.ResourceDiscount, createdID(d.ID), err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) AdminDeleteDiscount(c *gin.Context) {
	err := h.Catalog.DeleteDiscount(c.Request.Context(), c.Param("id"), c.Param("discountId"))
	h.audit(c, audit.ActionDiscountDelete, audit.ResourceDiscount, c.Param("discountId"), err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Réduction supprimée"})
}

// --- Audit ---

// GET /api/admin/audit?resource=product&limit=100
func (h *Handler) AdminAuditLogs(c *gin.Context) {
	if h.Audit == nil {
		c.JSON(http.StatusOK, gin.H{"logs": []models.AuditEntry{}, "count": 0})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.Audit.List(c.Request.Context(), c.DefaultQuery("resource", audit.ResourceProduct), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
