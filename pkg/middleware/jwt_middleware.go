package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gynergy/pkg/utils"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "gynergy_session"

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
)

// JWTAuthMiddleware rejects requests without a valid session before any
// handler runs. The token is read from the Authorization header first and
// the session cookie second.
func JWTAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {

	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUserID returns the authenticated caller set by JWTAuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString(ctxUserID))
	if err != nil {
		return uuid.Nil, utils.ErrUnauthenticated
	}
	return id, nil
}
