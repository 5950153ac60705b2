package server

import (
	"github.com/gin-gonic/gin"
)

const contextUserEmailKey = "user_email"

// AuthRequired resolves the session cookie to a principal and stores the
// owning email on the request context. Requests without a valid session
// never reach the handler.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserEmailKey, principal.Email)
		c.Next()
	}
}

func currentUserEmail(c *gin.Context) string {
	return c.GetString(contextUserEmailKey)
}
