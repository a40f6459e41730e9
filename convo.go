// Package convo manages bounded, ordered LLM conversation histories.
// The core lives in the conversation package; this package re-exports
// the public surface and bridges configuration to construction.
package convo

import (
	"github.com/teilomillet/convo/config"
	"github.com/teilomillet/convo/conversation"
	"github.com/teilomillet/convo/utils"
)

// Type aliases bridging the public API to the conversation package.
type (
	Conversation      = conversation.Conversation
	Message           = conversation.Message
	Content           = conversation.Content
	Role              = conversation.Role
	ContentKind       = conversation.ContentKind
	TokenStats        = conversation.TokenStats
	ChatPayload       = conversation.ChatPayload
	PayloadMessage    = conversation.PayloadMessage
	ContentPart       = conversation.ContentPart
	Record            = conversation.Record
	Renderer          = conversation.Renderer
	Tokenizer         = conversation.Tokenizer
	TokenizerFunc     = conversation.TokenizerFunc
	ConversationError = conversation.ConversationError
	ErrorType         = conversation.ErrorType
	Option            = conversation.Option
	Config            = config.Config
	Logger            = utils.Logger
)

const (
	RoleSystem    = conversation.RoleSystem
	RoleUser      = conversation.RoleUser
	RoleAssistant = conversation.RoleAssistant
	RoleDeveloper = conversation.RoleDeveloper
	RoleInternal  = conversation.RoleInternal

	KindText     = conversation.KindText
	KindImageURL = conversation.KindImageURL
	KindFile     = conversation.KindFile
	KindInternal = conversation.KindInternal

	CommandNewTopic = conversation.CommandNewTopic
)

// Construction options, re-exported for callers that only import convo.
var (
	WithSystemPrompt      = conversation.WithSystemPrompt
	WithMaxMemoryMessages = conversation.WithMaxMemoryMessages
	WithTokenModel        = conversation.WithTokenModel
	WithTokenizer         = conversation.WithTokenizer
	WithLogger            = conversation.WithLogger
)

// New builds a conversation from a config, wiring the logger and the
// token model for the default tiktoken tokenizer. Extra options
// override the config-derived ones.
func New(cfg *config.Config, opts ...Option) (*Conversation, error) {
	base := []Option{
		conversation.WithSystemPrompt(cfg.SystemPrompt),
		conversation.WithMaxMemoryMessages(cfg.MaxMemoryMessages),
		conversation.WithTokenModel(cfg.TokenModel),
		conversation.WithLogger(utils.NewLogger(cfg.LogLevel)),
	}
	return conversation.NewConversation(append(base, opts...)...)
}

// Open builds a conversation from a config and, when cfg.HistoryFile is
// set, replays the saved history into it.
func Open(cfg *config.Config, opts ...Option) (*Conversation, error) {
	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.HistoryFile != "" {
		if err := c.Load(cfg.HistoryFile); err != nil {
			return nil, err
		}
	}
	return c, nil
}
