// Package main provides a command-line inspector for convo history
// files: it replays a saved conversation and prints the history or the
// current memory window, message counters, or the record schema.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/teilomillet/convo"
	"github.com/teilomillet/convo/config"
	"github.com/teilomillet/convo/conversation"
	"github.com/teilomillet/convo/render"
)

type cmdFlags struct {
	historyFile string
	memorySize  int
	memoryOnly  bool
	internal    bool
	textOnly    bool
	stats       bool
	schema      bool
}

func parseFlags() *cmdFlags {
	flags := &cmdFlags{}
	flag.StringVar(&flags.historyFile, "history", "", "History file to load (overrides CONVO_HISTORY_FILE)")
	flag.IntVar(&flags.memorySize, "memory-size", 0, "Memory window size (overrides CONVO_MAX_MEMORY_MESSAGES)")
	flag.BoolVar(&flags.memoryOnly, "memory", false, "Print only the current memory window")
	flag.BoolVar(&flags.internal, "internal", false, "Include internal marker messages")
	flag.BoolVar(&flags.textOnly, "text-only", false, "Print message text without metadata headers")
	flag.BoolVar(&flags.stats, "stats", false, "Print token counters after the messages")
	flag.BoolVar(&flags.schema, "schema", false, "Print the history record JSON schema and exit")
	flag.Parse()
	return flags
}

func main() {
	flags := parseFlags()

	if flags.schema {
		schema, err := conversation.RecordSchema()
		if err != nil {
			exitWithError("Error generating record schema: %v\n", err)
		}
		fmt.Println(string(schema))
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		exitWithError("Error loading config: %v\n", err)
	}
	if flags.historyFile != "" {
		cfg.HistoryFile = flags.historyFile
	}
	if flags.memorySize > 0 {
		cfg.MaxMemoryMessages = flags.memorySize
	}
	if cfg.HistoryFile == "" {
		exitWithError("No history file: pass -history or set CONVO_HISTORY_FILE\n")
	}

	c, err := convo.Open(cfg)
	if err != nil {
		exitWithError("Error loading conversation: %v\n", err)
	}

	opts := []render.ConsoleOption{}
	if flags.textOnly {
		opts = append(opts, render.WithTextOnly())
	}
	console := render.NewConsole(opts...)

	rendered := c.Render(console, flags.memoryOnly, flags.internal)
	fmt.Printf("\n%d message(s)\n", rendered)

	if flags.stats {
		printStats(c.Stats())
	}
}

func printStats(s convo.TokenStats) {
	fmt.Println("Token counters:")
	fmt.Printf("  total:             %d\n", s.Total)
	fmt.Printf("  user:              %d\n", s.User)
	fmt.Printf("  assistant:         %d\n", s.Assistant)
	fmt.Printf("  system:            %d\n", s.System)
	fmt.Printf("  memory total:      %d\n", s.MemoryTotal)
	fmt.Printf("  memory user:       %d\n", s.MemoryUser)
	fmt.Printf("  memory assistant:  %d\n", s.MemoryAssistant)
	fmt.Printf("  biggest user:      %d\n", s.BiggestUser)
	fmt.Printf("  biggest assistant: %d\n", s.BiggestAssistant)
}

func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
