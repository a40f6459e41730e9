package conversation

// Renderer receives plain message data for display. Implementations own
// all styling and output; the conversation never emits ANSI itself.
type Renderer interface {
	RenderMessage(index int, msg *Message)
}

// Render walks either the full history or the current memory window and
// hands each message to the renderer. Internal messages are skipped
// unless includeInternal is set; in memory-only mode they are always
// skipped. Returns the number of messages rendered.
func (c *Conversation) Render(r Renderer, memoryOnly, includeInternal bool) int {
	msgs := c.messages
	if memoryOnly {
		msgs = c.MemoryMessages()
		includeInternal = false
	}

	rendered := 0
	for i, msg := range msgs {
		if msg.Role == RoleInternal && !includeInternal {
			continue
		}
		r.RenderMessage(i, msg)
		rendered++
	}
	return rendered
}
