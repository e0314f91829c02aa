package middleware

import (
	"net/http"
	"strings"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	callerKey = "caller"

	// SessionName est le cookie du parcours HTML ; il porte le JWT sous SessionTokenKey.
	SessionName     = "storefront_session"
	SessionTokenKey = "token"
)

// Auth extrait l'appelant d'un header Bearer ou, à défaut, du cookie de session.
type Auth struct {
	secret   []byte
	sessions sessions.Store
	log      *zap.Logger
}

func NewAuth(secret []byte, store sessions.Store, log *zap.Logger) *Auth {
	return &Auth{secret: secret, sessions: store, log: log}
}

// OptionalAuth laisse passer les visiteurs anonymes ; les services décident.
func (a *Auth) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller, ok := a.resolve(c); ok {
			setCaller(c, caller)
		}
		c.Next()
	}
}

func (a *Auth) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := a.resolve(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token manquant ou invalide"})
			c.Abort()
			return
		}
		setCaller(c, caller)
		c.Next()
	}
}

func (a *Auth) resolve(c *gin.Context) (models.Caller, bool) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" && a.sessions != nil {
		if sess, err := a.sessions.Get(c.Request, SessionName); err == nil {
			token, _ = sess.Values[SessionTokenKey].(string)
		}
	}
	if token == "" {
		return models.Caller{}, false
	}

	claims, err := utils.ParseJWT(token, a.secret)
	if err != nil {
		a.log.Debug("❌ JWT refusé", zap.Error(err))
		return models.Caller{}, false
	}
	return claims.Caller(), true
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func setCaller(c *gin.Context, caller models.Caller) {
	c.Set(callerKey, caller)
	c.Set("user_id", caller.UserID)
	c.Set("role", caller.Role)
}

// CallerFrom renvoie un Caller anonyme si aucune authentification n'a réussi.
func CallerFrom(c *gin.Context) models.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(models.Caller); ok {
			return caller
		}
	}
	return models.Caller{}
}
