package conversation

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/teilomillet/convo/utils"
)

// Content is the tagged payload of a message. For image content the URL
// is already resolved: local file paths are embedded as base64 data-URIs
// at construction time.
type Content struct {
	Kind     ContentKind
	Text     string
	ImageURL string
}

// resolveImageURL turns a local file path into an inline data-URI.
// Remote URLs and data-URIs pass through untouched. An unreadable file
// degrades to a placeholder string instead of failing construction; the
// failure is logged so it does not vanish silently.
func resolveImageURL(url string, logger utils.Logger) string {
	if strings.HasPrefix(url, "http") || strings.HasPrefix(url, "data:image") {
		return url
	}
	data, err := os.ReadFile(url)
	if err != nil {
		if logger != nil {
			logger.Warn("Cannot read image file, storing placeholder", "path", url, "error", err)
		}
		return "Error opening image file: " + url
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

// Message is a single entry in a conversation. Fields are owned by the
// conversation that holds the message; NewMessage is the only path that
// checks the role/content invariants, so replace content wholesale
// rather than patching fields piecemeal.
//
// Tokens is computed once at construction and is not recomputed when
// fields are mutated; the conversation runs a full recount after
// structural edits.
type Message struct {
	Role    Role
	Content Content
	Sticky  bool
	Tokens  int
}

// NewMessage validates the role/content pairing, resolves image URLs and
// computes the token estimate. It fails with ErrorTypeInvalidRole for an
// unrecognized role and ErrorTypeInvalidContent for a missing payload or
// an unsupported content kind. A nil logger silences the image
// degradation warning.
func NewMessage(role Role, text string, kind ContentKind, imageURL string, sticky bool, tok Tokenizer, logger utils.Logger) (*Message, error) {
	if !role.Valid() {
		return nil, NewConversationError(ErrorTypeInvalidRole, "invalid message role: "+string(role), nil)
	}
	if role == RoleInternal && kind != KindInternal {
		return nil, NewConversationError(ErrorTypeInvalidContent, "internal role requires internal content, got: "+string(kind), nil)
	}

	m := &Message{Role: role, Sticky: sticky}
	switch kind {
	case KindImageURL:
		if imageURL == "" {
			return nil, NewConversationError(ErrorTypeInvalidContent, "missing image URL for "+string(kind)+" message", nil)
		}
		m.Content = Content{Kind: KindImageURL, Text: text, ImageURL: resolveImageURL(imageURL, logger)}
		m.Tokens = ImageTokenEstimate + tok.Count(text)
	case KindInternal:
		if text == "" {
			return nil, NewConversationError(ErrorTypeInvalidContent, "missing text for "+string(kind)+" message", nil)
		}
		m.Content = Content{Kind: KindInternal, Text: text}
		// internal messages are never sent to the model, so no tokens
	case KindText:
		if text == "" {
			return nil, NewConversationError(ErrorTypeInvalidContent, "missing text for "+string(kind)+" message", nil)
		}
		m.Content = Content{Kind: KindText, Text: text}
		m.Tokens = tok.Count(text)
	case KindFile:
		return nil, NewConversationError(ErrorTypeInvalidContent, "unsupported message type: "+string(kind), nil)
	default:
		return nil, NewConversationError(ErrorTypeInvalidContent, "invalid message type: "+string(kind), nil)
	}
	return m, nil
}

// IsInternal reports whether the message is a control marker.
func (m *Message) IsInternal() bool {
	return m.Content.Kind == KindInternal
}

// isTopicBoundary reports whether the message is a "new topic" marker.
func (m *Message) isTopicBoundary() bool {
	return m.Role == RoleInternal && m.Content.Text == CommandNewTopic
}

// ImageRef wraps an image URL in the shape the chat API expects.
type ImageRef struct {
	URL string `json:"url"`
}

// ContentPart is one element of a transport content array.
type ContentPart struct {
	Type     ContentKind `json:"type"`
	Text     string      `json:"text,omitempty"`
	ImageURL *ImageRef   `json:"image_url,omitempty"`
}

// PayloadMessage is the transport projection of a message.
type PayloadMessage struct {
	Role    Role          `json:"role"`
	Content []ContentPart `json:"content"`
}

// Payload projects the message into its transport shape. Image content
// expands to an image part followed by a trailing text part; text and
// internal content emit a single text part.
func (m *Message) Payload() PayloadMessage {
	switch m.Content.Kind {
	case KindImageURL:
		return PayloadMessage{
			Role: m.Role,
			Content: []ContentPart{
				{Type: KindImageURL, ImageURL: &ImageRef{URL: m.Content.ImageURL}},
				{Type: KindText, Text: m.Content.Text},
			},
		}
	case KindFile:
		return PayloadMessage{
			Role:    m.Role,
			Content: []ContentPart{{Type: KindFile, Text: "This format is not supported yet"}},
		}
	default:
		return PayloadMessage{
			Role:    m.Role,
			Content: []ContentPart{{Type: m.Content.Kind, Text: m.Content.Text}},
		}
	}
}
