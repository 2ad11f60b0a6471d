package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie holding the browser's quiz session id.
	SessionCookieName = "mcq_session"
	// ContextKeySessionID is the Gin context key for the quiz session id.
	ContextKeySessionID = "session_id"
)

// QuizSession makes sure every request carries a quiz session id, issuing a new
// cookie when the browser has none (or an unparsable one).
func QuizSession(maxAgeSeconds int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, id, maxAgeSeconds, "/", "", secure, true)
		}

		c.Set(ContextKeySessionID, id)
		c.Next()
	}
}

// GetSessionID returns the quiz session id set by QuizSession.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
