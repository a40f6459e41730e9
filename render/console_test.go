package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/convo/conversation"
)

var wordTokenizer = conversation.TokenizerFunc(func(text string) int {
	return len(strings.Fields(text))
})

func TestConsoleRenderMessage(t *testing.T) {
	t.Run("header and text", func(t *testing.T) {
		var buf bytes.Buffer
		console := NewConsole(WithOutput(&buf))

		msg, err := conversation.NewMessage(conversation.RoleUser, "hello there", conversation.KindText, "", true, wordTokenizer, nil)
		require.NoError(t, err)
		console.RenderMessage(3, msg)

		out := buf.String()
		assert.Contains(t, out, "3. USER (type=text, sticky=true):")
		assert.Contains(t, out, "hello there")
	})

	t.Run("text only suppresses the header", func(t *testing.T) {
		var buf bytes.Buffer
		console := NewConsole(WithOutput(&buf), WithTextOnly())

		msg, err := conversation.NewMessage(conversation.RoleAssistant, "an answer", conversation.KindText, "", false, wordTokenizer, nil)
		require.NoError(t, err)
		console.RenderMessage(0, msg)

		out := buf.String()
		assert.NotContains(t, out, "ASSISTANT")
		assert.Contains(t, out, "an answer")
	})

	t.Run("remote image URL printed in full", func(t *testing.T) {
		var buf bytes.Buffer
		console := NewConsole(WithOutput(&buf))

		msg, err := conversation.NewMessage(conversation.RoleUser, "look", conversation.KindImageURL, "https://example.com/cat.jpg", false, wordTokenizer, nil)
		require.NoError(t, err)
		console.RenderMessage(1, msg)

		assert.Contains(t, buf.String(), "https://example.com/cat.jpg")
	})

	t.Run("long data URI abbreviated", func(t *testing.T) {
		uri := "data:image/jpeg;base64," + strings.Repeat("A", 200)
		var buf bytes.Buffer
		console := NewConsole(WithOutput(&buf))

		msg, err := conversation.NewMessage(conversation.RoleUser, "inline", conversation.KindImageURL, uri, false, wordTokenizer, nil)
		require.NoError(t, err)
		console.RenderMessage(2, msg)

		out := buf.String()
		assert.Contains(t, out, "...")
		assert.NotContains(t, out, uri)
	})
}

func TestAbbreviateURL(t *testing.T) {
	short := "data:image/jpeg;base64,aGVsbG8="
	assert.Equal(t, short, abbreviateURL(short))

	long := "data:image/jpeg;base64," + strings.Repeat("B", 100)
	abbreviated := abbreviateURL(long)
	assert.Len(t, abbreviated, 2*dataURIEdge+3)
	assert.True(t, strings.HasPrefix(abbreviated, "data:image/jpeg;base64,"))
}
