package conversation

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/teilomillet/convo/utils"
)

// Tokenizer counts tokens in a text. Implementations are expected to be
// synchronous; the conversation calls Count once per message at
// construction and caches the result.
type Tokenizer interface {
	Count(text string) int
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) int

func (f TokenizerFunc) Count(text string) int { return f(text) }

// TiktokenTokenizer counts tokens with the BPE encoding of a model.
type TiktokenTokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenTokenizer builds a tokenizer for the given model. If the
// model has no known encoding it falls back to the gpt-4o encoding.
func NewTiktokenTokenizer(model string, logger utils.Logger) (*TiktokenTokenizer, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("Failed to get encoding for model, defaulting to gpt-4o", "model", model, "error", err)
		encoding, err = tiktoken.EncodingForModel(DefaultTokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get default encoding: %v", err)
		}
	}
	return &TiktokenTokenizer{encoding: encoding}, nil
}

func (t *TiktokenTokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
