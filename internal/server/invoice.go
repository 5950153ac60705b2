package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
)

// saveInvoiceRequest is the create-or-update body. A present _id turns
// the save into an update of that document.
type saveInvoiceRequest struct {
	ID string `json:"_id"`
	invoicedomain.SavePayload
}

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context(), currentUserEmail(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoice(c *gin.Context) {
	item, err := s.invoiceSvc.Get(c.Request.Context(), currentUserEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) SaveInvoice(c *gin.Context) {
	var req saveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	owner := currentUserEmail(c)

	var (
		saved invoicedomain.Invoice
		err   error
	)
	if id := strings.TrimSpace(req.ID); id != "" {
		saved, err = s.invoiceSvc.Update(ctx, owner, id, req.SavePayload)
	} else {
		saved, err = s.invoiceSvc.Create(ctx, owner, req.SavePayload)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": saved})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var payload invoicedomain.SavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	saved, err := s.invoiceSvc.Update(c.Request.Context(), currentUserEmail(c), c.Param("id"), payload)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": saved})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), currentUserEmail(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) SendInvoice(c *gin.Context) {
	if err := s.deliverySvc.Send(c.Request.Context(), currentUserEmail(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
