package conversation

import (
	"fmt"
)

// ErrorType represents the type of an error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidRole
	ErrorTypeInvalidContent
	ErrorTypeInvalidArgument
	ErrorTypeResourceUnavailable
)

// ConversationError represents an error in the conversation package
type ConversationError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *ConversationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.TypeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TypeString(), e.Message)
}

func (e *ConversationError) Unwrap() error {
	return e.Err
}

func (e *ConversationError) TypeString() string {
	switch e.Type {
	case ErrorTypeInvalidRole:
		return "InvalidRoleError"
	case ErrorTypeInvalidContent:
		return "InvalidContentError"
	case ErrorTypeInvalidArgument:
		return "InvalidArgumentError"
	case ErrorTypeResourceUnavailable:
		return "ResourceUnavailableError"
	default:
		return "UnknownError"
	}
}

// NewConversationError creates a new ConversationError
func NewConversationError(errType ErrorType, message string, err error) *ConversationError {
	return &ConversationError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}
