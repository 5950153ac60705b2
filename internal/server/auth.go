package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/inkvoice/inkvoice/internal/auth/domain"
)

type loginRequest struct {
	Email string `json:"email"`
}

// Login issues a magic link. The response is identical for known and
// unknown addresses.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.authsvc.RequestLogin(c.Request.Context(), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// VerifyLogin consumes the magic-link token, opens a session and sends
// the browser to the app.
func (s *Server) VerifyLogin(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		AbortWithError(c, newValidationError("token", "invalid_token", "missing token"))
		return
	}

	sess, err := s.authsvc.VerifyLogin(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, sess.Token, sess.ExpiresAt)
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"data": authdomain.Principal{Email: principal.Email}})
}
