package handlers

import (
	"net/http"
	"strings"

	"calendra/models"
	"calendra/services/agent"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgentMessageHandler runs one conversational turn. A blank session id means
// a new visitor; the server mints one and returns it in the response.
func AgentMessageHandler(svc agent.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.AgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid agent request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message text must not be empty"})
			return
		}
		if req.SessionID == "" {
			req.SessionID = uuid.New().String()
		}

		resp, err := svc.ProcessMessage(c.Request.Context(), req.SessionID, req.Text)
		if err != nil {
			logger.Error("Failed to process message",
				zap.String("sessionId", req.SessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// AgentResetHandler clears the conversation for a session.
func AgentResetHandler(svc agent.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.AgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid reset request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if req.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
			return
		}

		if err := svc.Reset(c.Request.Context(), req.SessionID); err != nil {
			logger.Error("Failed to reset session",
				zap.String("sessionId", req.SessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"sessionId": req.SessionID, "status": "reset"})
	}
}
