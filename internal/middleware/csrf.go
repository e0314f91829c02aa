package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const (
	CSRFCookieName = "storefront_csrf"
	CSRFFieldName  = "gorilla.csrf.Token"
	MsgCSRF        = "Jeton CSRF absent ou invalide"
)

type CSRFOptions struct {
	// Key : 32 octets.
	Key []byte
	// Secure : cookie Secure et contrôle strict du Referer (HTTPS).
	Secure bool
	// TrustedOrigins : hôtes (sans schéma) autorisés en plus de l'hôte courant.
	TrustedOrigins []string
}

// CSRF protège les pages HTML et leurs formulaires, authentifiés par le cookie de session.
// Le jeton est exposé aux gabarits via csrf.TemplateField(c.Request).
func CSRF(opts CSRFOptions, log *zap.Logger) gin.HandlerFunc {
	protect := csrf.Protect(opts.Key,
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.CookieName(CSRFCookieName),
		csrf.FieldName(CSRFFieldName),
		csrf.TrustedOrigins(opts.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("🛡️ Requête CSRF refusée",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			http.Error(w, MsgCSRF, http.StatusForbidden)
		})),
	)

	return func(c *gin.Context) {
		req := c.Request
		if !opts.Secure {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
		}
	}
}
