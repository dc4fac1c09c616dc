package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/griffinm/jotter/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(group *gin.RouterGroup, h *handlers.ConversationHandler) {
	conversations := group.Group("/conversations")
	conversations.POST("", h.Create)
	conversations.GET("", h.List)
	conversations.GET("/:conversation_id", h.Get)
	conversations.DELETE("/:conversation_id", h.Delete)
	conversations.POST("/:conversation_id/messages", h.SendMessage)
}
