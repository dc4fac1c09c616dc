package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/interfaces/httpserver/dto"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

// UserIDKey is the gin context key holding the resolved caller identity.
const UserIDKey = "user_id"

// ConversationHandler exposes HTTP entrypoints for conversations.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// RequireUser resolves the caller from the X-User-ID header. Requests
// without an identity are rejected before they reach a handler.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "missing X-User-ID header",
				Code:  "missing-user-id",
			})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// Create handles POST /v1/conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	conv, err := h.service.Create(c.Request.Context(), conversation.CreateParams{
		UserID:         c.GetString(UserIDKey),
		Title:          req.Title,
		InitialMessage: req.Message,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conv)
}

// List handles GET /v1/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	page, err := h.service.List(c.Request.Context(), c.GetString(UserIDKey), conversation.Pagination{
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/conversations/:conversation_id.
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.service.Get(c.Request.Context(), c.Param("conversation_id"), c.GetString(UserIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// Delete handles DELETE /v1/conversations/:conversation_id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	conv, err := h.service.Delete(c.Request.Context(), c.Param("conversation_id"), c.GetString(UserIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// SendMessage handles POST /v1/conversations/:conversation_id/messages.
// Processing is asynchronous: the accepted receipt confirms the persisted
// user message, and the assistant reply arrives as conversation items.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	receipt, err := h.service.SendMessage(c.Request.Context(), conversation.SendParams{
		ConversationID: c.Param("conversation_id"),
		UserID:         c.GetString(UserIDKey),
		Content:        req.Content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, receipt)
}

func (h *ConversationHandler) respondError(c *gin.Context, err error) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		platformerrors.LogError(h.log, platformErr)
		c.JSON(platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType()), dto.ErrorResponse{
			Error: platformErr.Message,
			Code:  platformErr.GetCode(),
		})
		return
	}

	h.log.Error().Err(err).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}
