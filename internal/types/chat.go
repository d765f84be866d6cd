package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateConversationRequest starts a new coaching conversation.
type CreateConversationRequest struct {
	Title string `json:"title,omitempty" validate:"omitempty,max=200"`
}

// SendMessageRequest posts a user message to a conversation. The assistant
// reply is generated synchronously and returned alongside.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=8000"`
}

// Validate validates the CreateConversationRequest using the validator.
func (r *CreateConversationRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the SendMessageRequest using the validator.
func (r *SendMessageRequest) Validate() error {
	return validator.New().Struct(r)
}
