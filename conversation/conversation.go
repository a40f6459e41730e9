package conversation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/teilomillet/convo/utils"
)

// Conversation owns an ordered message sequence whose index 0 is always
// the current system message. It keeps running token counters that must
// agree with what RecalculateTokens derives from a full rescan; the
// incremental updates in AddMessage are only an optimization over it.
//
// A Conversation is owned by a single logical caller at a time. Callers
// needing multi-session use must serialize access externally.
type Conversation struct {
	messages          []*Message
	maxMemoryMessages int
	tokenizer         Tokenizer
	logger            utils.Logger

	systemTokens          int
	userTokens            int
	assistantTokens       int
	totalTokens           int
	memoryUserTokens      int
	memoryAssistantTokens int
	memoryTotalTokens     int

	biggestUserTokens      int
	biggestAssistantTokens int
}

// TokenStats is a point-in-time snapshot of the conversation counters.
// Memory-scoped fields cover only the messages inside the sliding
// window; Biggest fields are running maxima of single-message sizes.
type TokenStats struct {
	Total           int
	User            int
	Assistant       int
	System          int
	MemoryTotal     int
	MemoryUser      int
	MemoryAssistant int

	BiggestUser      int
	BiggestAssistant int
}

type options struct {
	systemPrompt      string
	maxMemoryMessages int
	tokenModel        string
	tokenizer         Tokenizer
	logger            utils.Logger
}

// Option configures a Conversation at construction time.
type Option func(*options)

// WithSystemPrompt sets the initial system message. A blank prompt
// falls back to DefaultSystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) {
		o.systemPrompt = prompt
	}
}

// WithMaxMemoryMessages bounds the sliding memory window, not counting
// the system message.
func WithMaxMemoryMessages(n int) Option {
	return func(o *options) {
		o.maxMemoryMessages = n
	}
}

// WithTokenModel selects the model encoding for the default tokenizer.
// Ignored when WithTokenizer is also given.
func WithTokenModel(model string) Option {
	return func(o *options) {
		o.tokenModel = model
	}
}

// WithTokenizer replaces the default tiktoken-based tokenizer.
func WithTokenizer(tok Tokenizer) Option {
	return func(o *options) {
		o.tokenizer = tok
	}
}

// WithLogger sets the logger used for structural debug logging and
// corrupt-line warnings during Load.
func WithLogger(logger utils.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewConversation creates a conversation seeded with a sticky system
// message, either the supplied prompt or DefaultSystemPrompt.
func NewConversation(opts ...Option) (*Conversation, error) {
	o := options{
		systemPrompt:      DefaultSystemPrompt,
		maxMemoryMessages: DefaultMaxMemoryMessages,
		tokenModel:        DefaultTokenModel,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxMemoryMessages < 1 {
		return nil, NewConversationError(ErrorTypeInvalidArgument, "max memory messages must be > 0", nil)
	}
	if o.logger == nil {
		o.logger = utils.NewLogger(utils.LogLevelWarn)
	}
	if o.tokenizer == nil {
		tok, err := NewTiktokenTokenizer(o.tokenModel, o.logger)
		if err != nil {
			return nil, err
		}
		o.tokenizer = tok
	}

	prompt := strings.TrimSpace(o.systemPrompt)
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	system, err := NewMessage(RoleSystem, prompt, KindText, "", true, o.tokenizer, o.logger)
	if err != nil {
		return nil, err
	}

	c := &Conversation{
		messages:          []*Message{system},
		maxMemoryMessages: o.maxMemoryMessages,
		tokenizer:         o.tokenizer,
		logger:            o.logger,
	}
	c.totalTokens = system.Tokens
	c.systemTokens = system.Tokens
	c.memoryTotalTokens = system.Tokens
	return c, nil
}

// ConversationFromFile creates a conversation and replays a saved
// history file into it.
func ConversationFromFile(path string, opts ...Option) (*Conversation, error) {
	c, err := NewConversation(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Load(path); err != nil {
		return nil, err
	}
	return c, nil
}

// AddMessage validates, constructs and stores a new message.
//
// A system or developer message replaces index 0; this is the only path
// that changes the system slot. User, assistant and internal messages
// append to the tail. When a user or assistant append pushes the oldest
// windowed message out of the memory window, that message's tokens are
// subtracted from the memory-scoped counters; all-time totals are left
// alone. Internal messages never trigger or count in that accounting.
func (c *Conversation) AddMessage(role Role, text string, kind ContentKind, imageURL string, sticky bool) error {
	if !role.Valid() {
		return NewConversationError(ErrorTypeInvalidRole, "invalid message role: "+string(role), nil)
	}

	msg, err := NewMessage(role, text, kind, imageURL, sticky, c.tokenizer, c.logger)
	if err != nil {
		return err
	}

	// tokensToRemove is evaluated before the append so the index of the
	// message about to fall out of the window is still valid.
	tokensToRemove := 0
	switch {
	case role == RoleSystem || role == RoleDeveloper:
		if len(c.messages) >= 1 {
			tokensToRemove = c.messages[0].Tokens
			c.messages[0] = msg
		} else {
			c.messages = append(c.messages, msg)
		}
	case len(c.messages) > c.maxMemoryMessages+2 && role != RoleInternal:
		tokensToRemove = c.messages[len(c.messages)-c.maxMemoryMessages-1].Tokens
	}

	if role == RoleUser || role == RoleAssistant || role == RoleInternal {
		c.messages = append(c.messages, msg)
	}

	tokens := msg.Tokens
	switch role {
	case RoleUser:
		c.userTokens += tokens
		c.totalTokens += tokens
		c.memoryUserTokens += tokens - tokensToRemove
		c.memoryTotalTokens += tokens - tokensToRemove
		if tokens > c.biggestUserTokens {
			c.biggestUserTokens = tokens
		}
	case RoleAssistant:
		c.assistantTokens += tokens
		c.totalTokens += tokens
		c.memoryAssistantTokens += tokens - tokensToRemove
		c.memoryTotalTokens += tokens - tokensToRemove
		if tokens > c.biggestAssistantTokens {
			c.biggestAssistantTokens = tokens
		}
	case RoleSystem, RoleDeveloper:
		c.systemTokens = tokens
		c.totalTokens += tokens - tokensToRemove
		c.memoryTotalTokens += tokens - tokensToRemove
	case RoleInternal:
		// not counted
	}

	c.logger.Debug("Added message to conversation",
		"role", role, "type", kind, "sticky", sticky,
		"tokens", tokens, "total_tokens", c.totalTokens)
	return nil
}

// NewTopic appends the internal topic-boundary marker. Memory lookback
// stops at the marker from here on.
func (c *Conversation) NewTopic() error {
	return c.AddMessage(RoleInternal, CommandNewTopic, KindInternal, "", false)
}

// MemoryMessages derives the current memory window. It walks the
// history newest to oldest, collecting messages until the window is
// full, then only stickies from older history. A topic-boundary marker
// stops the walk and forces the system message back into the result.
// The window is recomputed on every call, never cached.
func (c *Conversation) MemoryMessages() []*Message {
	memory := make([]*Message, 0, len(c.messages))
	newTopicFound := false

	for i := len(c.messages) - 1; i >= 0; i-- {
		msg := c.messages[i]
		if len(memory) >= c.maxMemoryMessages {
			if msg.Sticky {
				memory = append(memory, msg)
			}
			continue
		}
		if msg.isTopicBoundary() {
			newTopicFound = true
			break
		}
		memory = append(memory, msg)
	}

	if newTopicFound {
		memory = append(memory, c.messages[0])
	}
	slices.Reverse(memory)
	return memory
}

// RemoveMessages removes up to n messages from the tail. The system
// message is never a candidate. With removeSticky the last n messages
// are truncated regardless of pin state; without it the walk skips
// stickies and stops early when fewer than n non-sticky messages exist.
// Counters are fully recomputed afterwards because removal can skip
// arbitrary interior stickies.
func (c *Conversation) RemoveMessages(n int, removeSticky bool) error {
	if n < 0 {
		return NewConversationError(ErrorTypeInvalidArgument, "cannot remove a negative number of messages", nil)
	}

	toRemove := min(n, len(c.messages)-1)
	if toRemove == 0 {
		return nil
	}

	if removeSticky {
		c.messages = c.messages[:len(c.messages)-toRemove]
	} else {
		removed := 0
		for i := len(c.messages) - 1; i >= 1 && removed < toRemove; i-- {
			if c.messages[i].Sticky {
				continue
			}
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			removed++
		}
	}

	c.RecalculateTokens()
	c.logger.Debug("Removed messages from conversation",
		"requested", n, "remove_sticky", removeSticky, "remaining", len(c.messages))
	return nil
}

// RemoveNonStickyMessages removes up to n non-sticky messages from the
// tail, leaving pinned messages in place.
func (c *Conversation) RemoveNonStickyMessages(n int) error {
	return c.RemoveMessages(n, false)
}

// Restart clears the whole non-system history, keeping only the system
// message.
func (c *Conversation) Restart() {
	c.messages = c.messages[:1]
	c.RecalculateTokens()
}

// RecalculateTokens re-derives every counter from a full rescan of the
// message list. This is the canonical definition of counter
// correctness; the incremental path in AddMessage must agree with it.
func (c *Conversation) RecalculateTokens() {
	c.userTokens = 0
	c.assistantTokens = 0
	c.totalTokens = 0
	c.memoryUserTokens = 0
	c.memoryAssistantTokens = 0
	c.memoryTotalTokens = 0
	c.biggestUserTokens = 0
	c.biggestAssistantTokens = 0

	for i, msg := range c.messages {
		tokens := msg.Tokens
		// 1-based position; messages past len-maxMemory are in memory
		inMemory := i+1 > len(c.messages)-c.maxMemoryMessages

		switch msg.Role {
		case RoleUser:
			c.userTokens += tokens
			c.totalTokens += tokens
			if inMemory {
				c.memoryUserTokens += tokens
				c.memoryTotalTokens += tokens
			}
			if tokens > c.biggestUserTokens {
				c.biggestUserTokens = tokens
			}
		case RoleAssistant:
			c.assistantTokens += tokens
			c.totalTokens += tokens
			if inMemory {
				c.memoryAssistantTokens += tokens
				c.memoryTotalTokens += tokens
			}
			if tokens > c.biggestAssistantTokens {
				c.biggestAssistantTokens = tokens
			}
		case RoleSystem, RoleDeveloper:
			c.systemTokens = tokens
			c.totalTokens += tokens
			c.memoryTotalTokens += tokens
		}
	}
}

// MessagesCount counts messages walking newest to oldest, stopping at
// the system or developer message, or once maxMemoryMessages counted
// entries are reached when memoryOnly is set. Internal and sticky
// messages are excluded from the count unless the matching flag is set.
// The trailing +1 accounts for the system message whenever the walk did
// not reach it itself.
func (c *Conversation) MessagesCount(memoryOnly, countSticky, countInternal bool) int {
	count := 0
	systemReached := false

	for i := len(c.messages) - 1; i >= 0; i-- {
		if (memoryOnly && count >= c.maxMemoryMessages) || systemReached {
			break
		}
		msg := c.messages[i]
		if msg.IsInternal() && !countInternal {
			continue
		}
		if msg.Sticky && !countSticky {
			continue
		}
		if msg.Role == RoleSystem || msg.Role == RoleDeveloper {
			systemReached = true
		}
		count++
	}

	if !systemReached {
		count++
	}
	return count
}

// Stats returns a snapshot of all token counters.
func (c *Conversation) Stats() TokenStats {
	return TokenStats{
		Total:            c.totalTokens,
		User:             c.userTokens,
		Assistant:        c.assistantTokens,
		System:           c.systemTokens,
		MemoryTotal:      c.memoryTotalTokens,
		MemoryUser:       c.memoryUserTokens,
		MemoryAssistant:  c.memoryAssistantTokens,
		BiggestUser:      c.biggestUserTokens,
		BiggestAssistant: c.biggestAssistantTokens,
	}
}

// Messages returns a copy of the message list.
func (c *Conversation) Messages() []*Message {
	return slices.Clone(c.messages)
}

// Len returns the number of messages including the system message.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// MessageAt returns the i-th message. The system message is at index 0;
// negative indices count from the tail.
func (c *Conversation) MessageAt(i int) (*Message, error) {
	n := len(c.messages)
	if i < -n || i >= n {
		return nil, NewConversationError(ErrorTypeInvalidArgument, fmt.Sprintf("invalid message index: %d", i), nil)
	}
	if i < 0 {
		i += n
	}
	return c.messages[i], nil
}

// SystemPrompt returns the text of the current system message.
func (c *Conversation) SystemPrompt() string {
	return c.messages[0].Content.Text
}

// LastMessageText returns the text of the newest message.
func (c *Conversation) LastMessageText() string {
	return c.messages[len(c.messages)-1].Content.Text
}

// CountSticky returns the number of pinned messages, system included.
func (c *Conversation) CountSticky() int {
	count := 0
	for _, msg := range c.messages {
		if msg.Sticky {
			count++
		}
	}
	return count
}

// CountNonSticky returns the number of unpinned messages.
func (c *Conversation) CountNonSticky() int {
	return len(c.messages) - c.CountSticky()
}

// MaxMemoryMessages returns the current window bound.
func (c *Conversation) MaxMemoryMessages() int {
	return c.maxMemoryMessages
}

// SetMaxMemoryMessages resizes the sliding window. The next call to
// MemoryMessages or RecalculateTokens picks the new bound up.
func (c *Conversation) SetMaxMemoryMessages(n int) error {
	if n < 1 {
		return NewConversationError(ErrorTypeInvalidArgument, "max memory messages must be > 0", nil)
	}
	c.maxMemoryMessages = n
	return nil
}

// MemoryMessagesCount returns the window size the next payload will
// carry, ignoring stickies and topic boundaries.
func (c *Conversation) MemoryMessagesCount() int {
	return min(len(c.messages), c.maxMemoryMessages+1)
}

// SetLastSticky pins or unpins the newest message.
func (c *Conversation) SetLastSticky(sticky bool) {
	c.messages[len(c.messages)-1].Sticky = sticky
}

// SetLastTwoSticky pins or unpins the newest two messages, typically a
// user/assistant exchange.
func (c *Conversation) SetLastTwoSticky(sticky bool) {
	if n := len(c.messages); n >= 2 {
		c.messages[n-1].Sticky = sticky
		c.messages[n-2].Sticky = sticky
	} else if n == 1 {
		c.messages[0].Sticky = sticky
	}
}

// SetStickyAt pins or unpins the message at index i. The system message
// at index 0 stays pinned; out-of-range indices are ignored.
func (c *Conversation) SetStickyAt(i int, sticky bool) {
	if i >= 1 && i < len(c.messages) {
		c.messages[i].Sticky = sticky
	}
}
