package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// MsgOnlyPOST est renvoyé par /wishlist/:id/destroy/ pour tout autre verbe.
const MsgOnlyPOST = "Only POST method is allowed for this endpoint."

// page porte les données de tous les gabarits HTML.
type page struct {
	Title     string
	Caller    models.Caller
	Flashes   []FlashMessage
	CsrfField template.HTML

	Products []models.PricedProduct
	Product  models.PricedProduct
	Cart     models.Cart
	Wishlist []models.Product

	Error string
	Email string
	Name  string
}

func (h *Handler) render(c *gin.Context, status int, name string, p page) {
	p.Caller = middleware.CallerFrom(c)
	p.Flashes = h.takeFlashes(c)
	p.CsrfField = csrf.TemplateField(c.Request)
	c.HTML(status, name, p)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.Log.Error("❌ Erreur interne", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	status := apperr.HTTPStatus(kind)
	h.render(c, status, "error.html", page{Title: http.StatusText(status), Error: apperr.Message(err)})
}

func (h *Handler) ShopPage(c *gin.Context) {
	products, err := h.Catalog.Shop(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "shop.html", page{Title: "Boutique", Products: products})
}

func (h *Handler) ProductPage(c *gin.Context) {
	p, err := h.Catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "product.html", page{Title: p.Name, Product: p})
}

func (h *Handler) CartPage(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if !caller.Authenticated() {
		c.Redirect(http.StatusFound, loginPath)
		return
	}
	cart, err := h.Cart.List(c.Request.Context(), caller)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "cart.html", page{Title: "Panier", Cart: cart})
}

// WishlistPage affiche une liste vide aux visiteurs anonymes.
func (h *Handler) WishlistPage(c *gin.Context) {
	products, err := h.Wishlist.List(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "wishlist.html", page{Title: "Wishlist", Wishlist: products})
}

// --- Formulaires ---

// WishlistCreateForm traite POST /wishlist/create/ (champ "product").
func (h *Handler) WishlistCreateForm(c *gin.Context) {
	target := redirectTarget(c.Request.Referer())

	res, err := h.Wishlist.Add(c.Request.Context(), middleware.CallerFrom(c), c.PostForm("product"))
	if err != nil {
		h.formError(c, err, target)
		return
	}
	h.flash(c, "success", res.Message())
	c.Redirect(http.StatusFound, target)
}

// WishlistDestroyForm traite POST /wishlist/:id/destroy/ puis revient à la wishlist.
func (h *Handler) WishlistDestroyForm(c *gin.Context) {
	err := h.Wishlist.Remove(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil && apperr.KindOf(err) == apperr.KindUnauthenticated {
		h.formError(c, err, wishlistPath)
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.flash(c, "success", "Produit retiré de la wishlist")
	c.Redirect(http.StatusFound, wishlistPath)
}

func (h *Handler) OnlyPOST(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.String(http.StatusMethodNotAllowed, MsgOnlyPOST)
}

// AddToCartForm traite POST /wishlist/add_to_cart/ (champs "product_id" et "quantity").
func (h *Handler) AddToCartForm(c *gin.Context) {
	target := redirectTarget(c.Request.Referer())

	var quantity *int
	if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.formError(c, apperr.BadRequest("Quantité invalide"), target)
			return
		}
		quantity = &n
	}

	if _, err := h.Cart.Add(c.Request.Context(), middleware.CallerFrom(c), c.PostForm("product_id"), quantity); err != nil {
		h.formError(c, err, target)
		return
	}
	h.flash(c, "success", "Produit ajouté au panier")
	c.Redirect(http.StatusFound, target)
}

// formError renvoie un visiteur anonyme vers la connexion, les autres vers target avec le message.
func (h *Handler) formError(c *gin.Context, err error, target string) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.Log.Error("❌ Erreur interne", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	h.flash(c, "error", apperr.Message(err))
	if kind == apperr.KindUnauthenticated {
		target = loginPath
	}
	c.Redirect(http.StatusFound, target)
}

// --- Connexion ---

func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", page{Title: "Connexion"})
}

func (h *Handler) LoginSubmit(c *gin.Context) {
	email := c.PostForm("email")
	session, err := h.Auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		status := apperr.HTTPStatus(apperr.KindOf(err))
		h.render(c, status, "login.html", page{Title: "Connexion", Error: apperr.Message(err), Email: email})
		return
	}
	h.startSession(c, session.Token, "Bienvenue "+session.User.Name)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", page{Title: "Inscription"})
}

func (h *Handler) RegisterSubmit(c *gin.Context) {
	name, email := c.PostForm("name"), c.PostForm("email")
	session, err := h.Auth.Register(c.Request.Context(), name, email, c.PostForm("password"))
	if err != nil {
		status := apperr.HTTPStatus(apperr.KindOf(err))
		h.render(c, status, "register.html", page{Title: "Inscription", Error: apperr.Message(err), Email: email, Name: name})
		return
	}
	h.startSession(c, session.Token, "Compte créé")
}

func (h *Handler) startSession(c *gin.Context, token, message string) {
	sess := h.session(c)
	sess.Values[middleware.SessionTokenKey] = token
	sess.AddFlash(FlashMessage{Type: "success", Message: strings.TrimSpace(message)})
	h.saveSession(c, sess)
	c.Redirect(http.StatusSeeOther, shopPath)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := h.session(c)
	delete(sess.Values, middleware.SessionTokenKey)
	sess.AddFlash(FlashMessage{Type: "success", Message: "Vous êtes déconnecté"})
	h.saveSession(c, sess)
	c.Redirect(http.StatusSeeOther, shopPath)
}
