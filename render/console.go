// Package render provides console presentation for conversations. The
// core exposes plain message data through the conversation.Renderer
// interface; all styling lives here.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teilomillet/convo/conversation"
)

// dataURIEdge is how many characters of an inline data-URI survive on
// each side of the ellipsis.
const dataURIEdge = 30

// Console renders messages with one color per role, the scheme used by
// most chat frontends: user white, assistant green, system yellow,
// internal gray.
type Console struct {
	out      io.Writer
	textOnly bool

	header   lipgloss.Style
	styles   map[conversation.Role]lipgloss.Style
	fallback lipgloss.Style
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithOutput redirects rendering away from stdout.
func WithOutput(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.out = w
	}
}

// WithTextOnly suppresses the per-message metadata header.
func WithTextOnly() ConsoleOption {
	return func(c *Console) {
		c.textOnly = true
	}
}

// NewConsole builds a console renderer writing to stdout.
func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{
		out:    os.Stdout,
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		styles: map[conversation.Role]lipgloss.Style{
			conversation.RoleUser:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
			conversation.RoleAssistant: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			conversation.RoleSystem:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			conversation.RoleDeveloper: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			conversation.RoleInternal:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		},
		fallback: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RenderMessage implements conversation.Renderer.
func (c *Console) RenderMessage(index int, msg *conversation.Message) {
	style, ok := c.styles[msg.Role]
	if !ok {
		style = c.fallback
	}

	if !c.textOnly {
		header := fmt.Sprintf("%d. %s (type=%s, sticky=%t):",
			index, strings.ToUpper(string(msg.Role)), msg.Content.Kind, msg.Sticky)
		fmt.Fprintln(c.out, c.header.Render(header))
	}
	fmt.Fprintln(c.out, style.Render(msg.Content.Text))

	if msg.Content.Kind == conversation.KindImageURL {
		fmt.Fprintln(c.out, style.Render(abbreviateURL(msg.Content.ImageURL)))
	}
}

// abbreviateURL shortens inline data-URIs, which can embed megabytes of
// base64, down to their edges.
func abbreviateURL(url string) string {
	if strings.HasPrefix(url, "data:image") && len(url) > 2*dataURIEdge {
		return url[:dataURIEdge] + "..." + url[len(url)-dataURIEdge:]
	}
	return url
}
