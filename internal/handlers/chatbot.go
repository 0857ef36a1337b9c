package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/chatbot"
	"github.com/bikehub/bikehub-backend/internal/metrics"
)

type ChatInput struct {
	Message string `json:"message"`
}

// Chat answers a chatbot message.
func Chat(db *gorm.DB) gin.HandlerFunc {
	responder := chatbot.NewResponder(chatbot.NewGormCatalog(db))

	return func(c *gin.Context) {
		var input ChatInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if strings.TrimSpace(input.Message) == "" {
			c.JSON(400, gin.H{"error": "Message is required"})
			return
		}

		response, kind := responder.Respond(c.Request.Context(), input.Message)
		metrics.IncChatbotResponse(kind)

		c.JSON(200, gin.H{"response": response})
	}
}

// ChatSuggestions returns the canned starter questions.
func ChatSuggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"suggestions": chatbot.Suggestions()})
	}
}
