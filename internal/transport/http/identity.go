package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"study-quiz-service/internal/domain"
)

const (
	cookieName     = "study_session"
	visitorKey     = "visitor_id"
	visitorCtxKey  = "visitorID"
	cookieLifetime = 30 * 24 * 60 * 60
)

// identity assigns every client a stable visitor id kept in a signed cookie
// and records the visit.
func (h *Handler) identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := h.cookies.Get(c.Request, cookieName)

		visitorID, _ := session.Values[visitorKey].(string)
		if _, err := uuid.Parse(visitorID); err != nil {
			visitorID = uuid.NewString()
			session.Values[visitorKey] = visitorID
			if err := session.Save(c.Request, c.Writer); err != nil {
				h.log.Warn("save session cookie failed", "error", err)
			}
		}
		c.Set(visitorCtxKey, visitorID)

		h.service.TouchVisitor(c.Request.Context(), domain.VisitorSession{
			ID:        visitorID,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorCtxKey)
}

func newCookieStore(secret []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieLifetime,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
