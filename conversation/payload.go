package conversation

// ChatPayload is the request body shape consumed by an external chat
// API client.
type ChatPayload struct {
	Messages    []PayloadMessage `json:"messages"`
	Temperature float64          `json:"temperature"`
	TopP        float64          `json:"top_p"`
	MaxTokens   int              `json:"max_tokens"`
}

func payloadMessages(msgs []*Message) []PayloadMessage {
	out := make([]PayloadMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Payload())
	}
	return out
}

// MemoryPayload builds a transport payload from the current memory
// window.
func (c *Conversation) MemoryPayload(temperature, topP float64, maxTokens int) ChatPayload {
	return ChatPayload{
		Messages:    payloadMessages(c.MemoryMessages()),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}
}

// HistoryPayload builds a transport payload from the full history,
// ignoring the memory window.
func (c *Conversation) HistoryPayload(temperature, topP float64, maxTokens int) ChatPayload {
	return ChatPayload{
		Messages:    payloadMessages(c.messages),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}
}
