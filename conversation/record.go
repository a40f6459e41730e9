package conversation

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/teilomillet/convo/utils"
)

// Record is the persisted form of a message, one JSON object per line
// in a history file.
type Record struct {
	Role            string `json:"role"`
	MsgType         string `json:"msg_type"`
	ContentText     string `json:"content_text"`
	ContentImageURL string `json:"content_image_url"`
	Sticky          bool   `json:"sticky"`
}

// Record returns the persisted form of the message. For image content
// the stored URL is the resolved one, so local files round-trip as the
// embedded data-URI.
func (m *Message) Record() Record {
	return Record{
		Role:            string(m.Role),
		MsgType:         string(m.Content.Kind),
		ContentText:     m.Content.Text,
		ContentImageURL: m.Content.ImageURL,
		Sticky:          m.Sticky,
	}
}

// MessageFromRecord rebuilds a message from its persisted form, running
// the full construction validation.
func MessageFromRecord(r Record, tok Tokenizer, logger utils.Logger) (*Message, error) {
	return NewMessage(Role(r.Role), r.ContentText, ContentKind(r.MsgType), r.ContentImageURL, r.Sticky, tok, logger)
}

// RecordSchema returns the JSON schema of a single history line, for
// external tools that want to validate history files.
func RecordSchema() ([]byte, error) {
	schema := jsonschema.Reflect(&Record{})
	return json.MarshalIndent(schema, "", "  ")
}
