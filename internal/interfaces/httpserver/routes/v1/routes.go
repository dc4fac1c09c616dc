package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/griffinm/jotter/internal/interfaces/httpserver/handlers"
)

// Routes registers the v1 API surface.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes constructs the v1 route group.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{handlers: handlerProvider}
}

// Register attaches the v1 routes to the engine. Every route requires a
// resolved caller identity.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	group.Use(handlers.RequireUser())

	registerConversationRoutes(group, r.handlers.Conversation)
}
