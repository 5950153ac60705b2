package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type generatePDFRequest struct {
	HTML string `json:"html"`
}

// GeneratePDF renders caller-supplied HTML and streams the document
// back as an attachment.
func (s *Server) GeneratePDF(c *gin.Context) {
	var req generatePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.HTML) == "" {
		AbortWithError(c, newValidationError("html", "invalid_html", "html is required"))
		return
	}

	data, err := s.renderer.Render(c.Request.Context(), req.HTML)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
