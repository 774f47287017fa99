package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/email"
)

// SubmitEnquiry handles POST /v1/enquiries
// Commission and general enquiries are forwarded to the studio inbox.
func (h *Handlers) SubmitEnquiry(c *gin.Context) {
	var input email.Enquiry
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := h.Mailer.SendEnquiry(c.Request.Context(), input)
	if errors.Is(err, email.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Enquiries are not available right now"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to send enquiry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thanks! We will get back to you soon."})
}
