package convo

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/convo/config"
)

var wordTokenizer = TokenizerFunc(func(text string) int {
	return len(strings.Fields(text))
})

func TestNewFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	config.ApplyOptions(cfg,
		config.SetSystemPrompt("terse answers only"),
		config.SetMaxMemoryMessages(4),
	)

	c, err := New(cfg, WithTokenizer(wordTokenizer))
	require.NoError(t, err)

	assert.Equal(t, "terse answers only", c.SystemPrompt())
	assert.Equal(t, 4, c.MaxMemoryMessages())
	assert.Equal(t, 3, c.Stats().System)
}

func TestOpenReplaysHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	cfg := config.NewConfig()
	saved, err := New(cfg, WithTokenizer(wordTokenizer))
	require.NoError(t, err)
	require.NoError(t, saved.AddMessage(RoleUser, "remember me", KindText, "", false))
	require.NoError(t, saved.Save(path))

	config.ApplyOptions(cfg, config.SetHistoryFile(path))
	loaded, err := Open(cfg, WithTokenizer(wordTokenizer))
	require.NoError(t, err)

	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, "remember me", loaded.LastMessageText())
}

func TestOpenWithoutHistoryFile(t *testing.T) {
	c, err := Open(config.NewConfig(), WithTokenizer(wordTokenizer))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
