package dto

// CreateConversationRequest starts a conversation, optionally submitting the
// first message in the same call.
type CreateConversationRequest struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
}

// SendMessageRequest submits a user message to an existing conversation.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListQuery carries pagination parameters.
type ListQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
