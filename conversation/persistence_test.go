package conversation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/convo/utils"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	c := newTestConversation(t, WithMaxMemoryMessages(4), WithSystemPrompt("round trip system prompt"))
	addText(t, c, RoleUser, "first question", false)
	addText(t, c, RoleAssistant, "first answer", false)
	addText(t, c, RoleUser, "pin this one", true)
	addText(t, c, RoleAssistant, "noted", false)
	require.NoError(t, c.NewTopic())
	addText(t, c, RoleUser, "second question", false)
	require.NoError(t, c.AddMessage(RoleUser, "look", KindImageURL, "data:image/jpeg;base64,aGVsbG8=", false))
	addText(t, c, RoleAssistant, "an image", false)
	addText(t, c, RoleUser, "third question", false)
	addText(t, c, RoleAssistant, "third answer", true)
	require.Equal(t, 11, c.Len())

	require.NoError(t, c.Save(path))

	restored := newTestConversation(t, WithMaxMemoryMessages(4))
	require.NoError(t, restored.Load(path))

	assert.Equal(t, c.Messages(), restored.Messages())

	c.RecalculateTokens()
	restored.RecalculateTokens()
	assert.Equal(t, c.Stats(), restored.Stats())
}

func TestConversationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	c := newTestConversation(t, WithSystemPrompt("saved prompt"))
	addText(t, c, RoleUser, "hello", false)
	require.NoError(t, c.Save(path))

	loaded, err := ConversationFromFile(path,
		WithTokenizer(wordTokenizer),
		WithLogger(utils.NewLogger(utils.LogLevelOff)))
	require.NoError(t, err)
	assert.Equal(t, "saved prompt", loaded.SystemPrompt())
	assert.Equal(t, 2, loaded.Len())
}

func TestLoadSkipsCorruptLines(t *testing.T) {
	logger := &utils.MockLogger{}
	logger.On("Debug", mock.Anything, mock.Anything).Return()
	logger.On("Warn", mock.Anything, mock.Anything).Return()

	lines := []string{
		`{"role":"system","msg_type":"text","content_text":"sys","content_image_url":"","sticky":true}`,
		`[1,2,3`, // repairs to an array, still not a record
		`{"role":"wizard","msg_type":"text","content_text":"bad role","content_image_url":"","sticky":false}`,
		`{"role":"user","msg_type":"text","content_text":"kept","content_image_url":"","sticky":false}`,
	}
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))

	c, err := NewConversation(WithTokenizer(wordTokenizer), WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, c.Load(path))

	assert.Equal(t, []string{"sys", "kept"}, texts(c.Messages()))
	assert.Equal(t, 2, logger.WarnCallCount)
}

func TestLoadRepairsTruncatedLines(t *testing.T) {
	lines := []string{
		`{"role":"system","msg_type":"text","content_text":"sys","content_image_url":"","sticky":true}`,
		// missing closing brace, recoverable
		`{"role":"user","msg_type":"text","content_text":"repaired","content_image_url":"","sticky":false`,
	}
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))

	c := newTestConversation(t)
	require.NoError(t, c.Load(path))
	assert.Equal(t, []string{"sys", "repaired"}, texts(c.Messages()))
}

func TestLoadMissingFile(t *testing.T) {
	c := newTestConversation(t)
	err := c.Load(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Equal(t, ErrorTypeResourceUnavailable, errType(t, err))
}

func TestLoadReplacesExistingHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	saved := newTestConversation(t, WithSystemPrompt("saved prompt"))
	addText(t, saved, RoleUser, "from the file", false)
	require.NoError(t, saved.Save(path))

	c := newTestConversation(t, WithSystemPrompt("live prompt"))
	addText(t, c, RoleUser, "about to vanish", false)
	require.NoError(t, c.Load(path))

	assert.Equal(t, "saved prompt", c.SystemPrompt())
	assert.Equal(t, []string{"saved prompt", "from the file"}, texts(c.Messages()))
}
