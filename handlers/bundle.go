package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Agent endpoints
	AgentMessageHandler gin.HandlerFunc
	AgentResetHandler   gin.HandlerFunc

	// Calendar endpoints
	GetSlotsHandler        gin.HandlerFunc
	GetAppointmentsHandler gin.HandlerFunc
	GetAnalyticsHandler    gin.HandlerFunc
}
