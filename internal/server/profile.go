package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
)

func (s *Server) GetProfile(c *gin.Context) {
	prof, err := s.profileSvc.Get(c.Request.Context(), currentUserEmail(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prof})
}

func (s *Server) SaveProfile(c *gin.Context) {
	var payload profiledomain.SavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	owner := currentUserEmail(c)

	if err := s.profileSvc.Save(ctx, owner, payload); err != nil {
		AbortWithError(c, err)
		return
	}

	prof, err := s.profileSvc.Get(ctx, owner)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prof})
}
