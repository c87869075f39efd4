// Package types provides type definitions for structured data used throughout the review-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ChatRole identifies the author of a chat turn.
type ChatRole string

// Chat roles
const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn of the follow-up assistant conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role" validate:"required,oneof=user model"`
	Content string   `json:"content"`
}
