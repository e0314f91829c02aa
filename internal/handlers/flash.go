package handlers

import (
	"encoding/gob"
	"net/http"

	"storefront_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

func init() {
	gob.Register(FlashMessage{})
}

type FlashMessage struct {
	Type    string
	Message string
}

func (h *Handler) session(c *gin.Context) *sessions.Session {
	// Un cookie illisible (clé changée) donne une session neuve.
	sess, _ := h.Sessions.Get(c.Request, middleware.SessionName)
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return sess
}

func (h *Handler) flash(c *gin.Context, kind, message string) {
	sess := h.session(c)
	sess.AddFlash(FlashMessage{Type: kind, Message: message})
	h.saveSession(c, sess)
}

// takeFlashes vide les messages en attente ; à appeler avant l'écriture du corps.
func (h *Handler) takeFlashes(c *gin.Context) []FlashMessage {
	sess := h.session(c)
	var out []FlashMessage
	for _, f := range sess.Flashes() {
		if fm, ok := f.(FlashMessage); ok {
			out = append(out, fm)
		}
	}
	if len(out) > 0 {
		h.saveSession(c, sess)
	}
	return out
}

func (h *Handler) saveSession(c *gin.Context, sess *sessions.Session) {
	if err := sess.Save(c.Request, c.Writer); err != nil {
		h.Log.Warn("⚠️ Sauvegarde session impossible", zap.Error(err))
	}
}
