package conversation

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// maxRecordBytes bounds a single history line. Inline data-URI images
// can grow far past bufio's default token size.
const maxRecordBytes = 16 * 1024 * 1024

// Save writes the conversation as newline-delimited JSON records, one
// message per line, starting with the system message.
func (c *Conversation) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return NewConversationError(ErrorTypeResourceUnavailable, "cannot create history file: "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, msg := range c.messages {
		line, err := json.Marshal(msg.Record())
		if err != nil {
			return err
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	c.logger.Debug("Saved conversation", "path", path, "messages", len(c.messages))
	return nil
}

// Load resets the conversation and replays each line of a history file
// through AddMessage, so validation and counter bookkeeping run again.
// A malformed line is repaired if possible, otherwise logged and
// skipped; a corrupt line never aborts the whole load.
func (c *Conversation) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return NewConversationError(ErrorTypeResourceUnavailable, "cannot open history file: "+path, err)
	}
	defer f.Close()

	c.reset()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			repaired, repairErr := jsonrepair.JSONRepair(line)
			if repairErr != nil || json.Unmarshal([]byte(repaired), &rec) != nil {
				c.logger.Warn("Skipping malformed history line", "path", path, "line", lineNo, "error", err)
				continue
			}
		}

		if err := c.AddMessage(Role(rec.Role), rec.ContentText, ContentKind(rec.MsgType), rec.ContentImageURL, rec.Sticky); err != nil {
			c.logger.Warn("Skipping invalid history record", "path", path, "line", lineNo, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	c.logger.Debug("Loaded conversation", "path", path, "messages", len(c.messages))
	return nil
}

// reset empties the conversation entirely, system message included.
// Only Load may do this; the replayed first record restores index 0.
func (c *Conversation) reset() {
	c.messages = nil
	c.systemTokens = 0
	c.userTokens = 0
	c.assistantTokens = 0
	c.totalTokens = 0
	c.memoryUserTokens = 0
	c.memoryAssistantTokens = 0
	c.memoryTotalTokens = 0
	c.biggestUserTokens = 0
	c.biggestAssistantTokens = 0
}
