package handlers

import (
	"context"
	"net/http"
	"strings"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cart"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/wishlist"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Handler regroupe les pages HTML et l'API REST du storefront.
type Handler struct {
	Catalog  *catalog.Service
	Cart     *cart.Service
	Wishlist *wishlist.Service
	Auth     *auth.Service
	// Audit nil = actions admin non tracées.
	Audit    *audit.Trail
	Sessions sessions.Store
	Log      *zap.Logger
	// Checks est interrogé par /healthz (ScyllaDB, Redis...).
	Checks map[string]func(ctx context.Context) error
	// SecureCookies passe le cookie de session en Secure (production).
	SecureCookies bool
}

const (
	shopPath     = "/"
	wishlistPath = "/wishlist/"
	loginPath    = "/login/"
)

// redirectTarget choisit la page de retour d'un formulaire selon la page d'origine.
func redirectTarget(referer string) string {
	if strings.Contains(referer, "wishlist") {
		return wishlistPath
	}
	return shopPath
}

// respondError traduit une erreur de service en réponse JSON {"error": ...}.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.Log.Error("❌ Erreur interne",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.JSON(apperr.HTTPStatus(kind), gin.H{"error": apperr.Message(err)})
}

// Health répond 503 dès qu'une dépendance ne répond pas.
func (h *Handler) Health(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.Checks {
		if err := check(c.Request.Context()); err != nil {
			h.Log.Warn("⚠️ Healthcheck en échec", zap.String("dependency", name), zap.Error(err))
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "dependencies": deps})
}

// NoRoute et NoMethod gardent le format d'erreur de l'API.
func (h *Handler) NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Ressource introuvable"})
}

func (h *Handler) NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Méthode non autorisée"})
}
