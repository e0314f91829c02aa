package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3
	CartMaxAdds         = 20

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
	APIWindow        = 1 * time.Minute
)

// Limiter est implémenté par cache.RateLimiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

type Rule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
	// Key renvoie "" pour ne pas limiter la requête.
	Key func(c *gin.Context) string
}

func ByIP(c *gin.Context) string { return c.ClientIP() }

// ByUser limite par utilisateur authentifié ; les anonymes ne sont pas comptés.
func ByUser(c *gin.Context) string { return CallerFrom(c).UserID }

// RateLimit laisse passer la requête si Redis est indisponible.
func RateLimit(l Limiter, rule Rule, log *zap.Logger) gin.HandlerFunc {
	if rule.Key == nil {
		rule.Key = ByIP
	}
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		id := rule.Key(c)
		if id == "" {
			c.Next()
			return
		}

		ok, retryAfter, err := l.Allow(c.Request.Context(), rule.Name+":"+id, rule.Limit, rule.Window)
		if err != nil {
			log.Warn("⚠️ Rate limit indisponible", zap.String("rule", rule.Name), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		if !ok {
			msg := rule.Message
			if msg == "" {
				msg = fmt.Sprintf("Trop de requêtes. Réessayez dans %d secondes", int(retryAfter.Seconds()))
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       msg,
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func APIRateLimit(l Limiter, perMinute int, log *zap.Logger) gin.HandlerFunc {
	return RateLimit(l, Rule{Name: "api", Limit: perMinute, Window: APIWindow}, log)
}

func LoginRateLimit(l Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimit(l, Rule{
		Name:    "login",
		Limit:   LoginMaxAttempts,
		Window:  LoginCooldown,
		Message: fmt.Sprintf("Trop de tentatives. Réessayez dans %d minutes", int(LoginCooldown.Minutes())),
	}, log)
}

func RegisterRateLimit(l Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimit(l, Rule{
		Name:    "register",
		Limit:   RegisterMaxAttempts,
		Window:  RegisterCooldown,
		Message: fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(RegisterCooldown.Minutes())),
	}, log)
}

// CartRateLimit limite les ajouts au panier (anti-spam).
func CartRateLimit(l Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimit(l, Rule{
		Name:    "cart_add",
		Limit:   CartMaxAdds,
		Window:  time.Minute,
		Message: "Trop d'ajouts au panier. Ralentissez un peu",
		Key:     ByUser,
	}, log)
}
