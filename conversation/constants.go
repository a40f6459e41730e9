// Package conversation manages a bounded, ordered chat history for a
// large-language-model chat API: message storage, pinned retention,
// a sliding memory window, per-role token accounting and topic resets.
package conversation

// Role identifies the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleDeveloper Role = "developer"
	// RoleInternal marks control messages that are never sent to the
	// model and never count toward token totals.
	RoleInternal Role = "internal"
)

// Valid reports whether the role is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleDeveloper, RoleInternal:
		return true
	}
	return false
}

// ContentKind tags the content variant carried by a message.
type ContentKind string

const (
	KindText     ContentKind = "text"
	KindImageURL ContentKind = "image_url"
	KindFile     ContentKind = "file" // not supported yet, rejected at construction
	KindInternal ContentKind = "internal"
)

// Valid reports whether the kind is one of the recognized content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindText, KindImageURL, KindFile, KindInternal:
		return true
	}
	return false
}

const (
	// DefaultSystemPrompt is used when no system message is supplied.
	DefaultSystemPrompt = "You are an AI assistant trying to be useful"

	// DefaultMaxMemoryMessages bounds the sliding window, not counting
	// the system message.
	DefaultMaxMemoryMessages = 8192

	// DefaultTokenModel is the model whose encoding drives token
	// estimation when no tokenizer is supplied.
	DefaultTokenModel = "gpt-4o"

	// CommandNewTopic is the sentinel text of an internal marker that
	// truncates memory lookback to the messages after it.
	CommandNewTopic = "newtopic"

	// ImageTokenEstimate is the flat token estimate for a single image,
	// the expected cost of a 1024x1024 tile.
	ImageTokenEstimate = 765
)

// Defaults for the transport payload knobs.
const (
	DefaultTemperature       = 0.7
	DefaultTopP              = 0.95
	DefaultMaxResponseTokens = 4000
)
