package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin s'utilise après AuthRequired.
func RequireAdmin(c *gin.Context) {
	if !CallerFrom(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
