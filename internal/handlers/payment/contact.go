package payment

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ContactSender interface {
	SendContact(ctx context.Context, name, email, message string) error
}

type ContactHandler struct {
	mailer ContactSender
}

func NewContactHandler(mailer ContactSender) *ContactHandler {
	return &ContactHandler{mailer: mailer}
}

//
// 📧 POST /api/contact
//
func (h *ContactHandler) Send(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&req)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if h.mailer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Contact form is not available"})
		return
	}

	if err := h.mailer.SendContact(c.Request.Context(), req.Name, req.Email, req.Message); err != nil {
		log.Printf("❌ Contact message from %s failed: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message."})
		return
	}
	log.Printf("📧 Contact message received from %s", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully!"})
}
