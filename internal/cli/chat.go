// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the kisan CLI.
//
// Handles the "kisan chat" command which provides a line-based REPL for the
// farming assistant. Messages written while offline are queued and can be
// flushed with /sync or by any later send once connectivity returns.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/krishiuday/kisan-tui/internal/chatsync"
	"github.com/krishiuday/kisan-tui/internal/config"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Leaf).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Leaf).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	queuedStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// chatInput provides input history and line editing for interactive chat.
type chatInput struct {
	line        *liner.State
	historyFile string
}

// newChatInput creates a liner-backed reader with persistent history.
func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	in := &chatInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

// Read reads a line of input with history support.
func (c *chatInput) Read(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and closes the liner.
func (c *chatInput) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) {
	env, err := BuildEnv(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	defer env.Close()

	if !env.Gate.Authenticated() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Not signed in.")+" Run: kisan login")
		os.Exit(1)
	}

	online := env.Monitor.Probe(context.Background())

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("Kisan Sahayak") + infoStyle.Render(" - chat with your farming assistant"))
		if online {
			fmt.Println(infoStyle.Render("Connected. Type /quit to exit."))
		} else {
			fmt.Println(queuedStyle.Render("You are offline. Messages will be queued and sent later."))
		}
		fmt.Println()
	}

	// Deliver anything queued from a previous session before the first
	// prompt.
	if online {
		flushQueued(env, args.Quiet)
	}

	printTranscriptTail(env.Engine.Transcript(), 6)

	input := newChatInput()
	defer input.Close()

	for {
		line, err := input.Read(promptStyle.Render("kisan> "))
		if err != nil {
			// Ctrl+C or Ctrl+D: exit gracefully.
			fmt.Println()
			printExitSummary(env)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if !handleSlashCommand(line, env, args.Quiet) {
				printExitSummary(env)
				return
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printExitSummary(env)
			return
		}

		sendMessage(env, line)
	}
}

// sendMessage composes one message and prints the outcome.
func sendMessage(env *Env, text string) {
	before := len(env.Engine.Transcript())

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	err := env.Engine.Compose(ctx, text)
	cancel()

	switch {
	case errors.Is(err, chatsync.ErrQueued):
		fmt.Println(queuedStyle.Render("[Queued] Will send when you are back online."))
	case err != nil:
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		fmt.Println(queuedStyle.Render("Your message is saved and will be retried."))
	default:
		// Print the assistant messages appended by this compose.
		transcript := env.Engine.Transcript()
		for _, msg := range transcript[before:] {
			if msg.Role == model.RoleAssistant {
				printAssistant(msg.Text)
			}
		}
	}
}

// flushQueued runs one reconcile pass and reports what it delivered.
func flushQueued(env *Env, quiet bool) {
	pending := env.Engine.PendingCount()
	if pending == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	delivered, err := env.Engine.Reconcile(ctx)
	if err != nil && !quiet {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Sync]"), err)
	}
	if delivered > 0 && !quiet {
		fmt.Println(infoStyle.Render(fmt.Sprintf("Delivered %d queued message(s).", delivered)))
	}
}

// handleSlashCommand executes a /command. Returns false to exit the REPL.
func handleSlashCommand(line string, env *Env, quiet bool) bool {
	cmd := strings.ToLower(strings.Fields(line)[0])
	switch cmd {
	case "/quit", "/q", "/exit":
		return false

	case "/pending":
		pending := model.PendingMessages(env.Engine.Transcript())
		if len(pending) == 0 {
			fmt.Println(infoStyle.Render("No messages waiting."))
			break
		}
		for _, msg := range pending {
			fmt.Printf("%s %s\n", queuedStyle.Render("[~]"), msg.Text)
		}

	case "/sync":
		if !env.Monitor.Probe(context.Background()) {
			fmt.Println(queuedStyle.Render("Still offline. Queued messages kept."))
			break
		}
		flushQueued(env, quiet)
		if env.Engine.PendingCount() == 0 {
			fmt.Println(infoStyle.Render("All messages delivered."))
		}

	case "/history":
		printTranscriptTail(env.Engine.Transcript(), 0)

	case "/help", "/h":
		fmt.Println(infoStyle.Render("/pending  show queued messages"))
		fmt.Println(infoStyle.Render("/sync     deliver queued messages now"))
		fmt.Println(infoStyle.Render("/history  show the full conversation"))
		fmt.Println(infoStyle.Render("/quit     exit chat"))

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (try /help)\n", cmd)
	}
	return true
}

// printTranscriptTail prints the last n messages; n <= 0 prints everything.
func printTranscriptTail(transcript []model.ChatMessage, n int) {
	start := 0
	if n > 0 && len(transcript) > n {
		start = len(transcript) - n
	}
	for _, msg := range transcript[start:] {
		if msg.Role == model.RoleUser {
			marker := ""
			if msg.Pending {
				marker = queuedStyle.Render(" [queued]")
			}
			fmt.Println(promptStyle.Render("you> ") + msg.Text + marker)
		} else {
			printAssistant(msg.Text)
		}
	}
}

// markdownRenderer is the shared glamour renderer for assistant output.
var markdownRenderer *glamour.TermRenderer

// printAssistant renders one assistant message as markdown when possible.
func printAssistant(text string) {
	if markdownRenderer == nil {
		markdownRenderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	}
	if markdownRenderer != nil {
		if out, err := markdownRenderer.Render(text); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(text)
}

// printExitSummary prints a short summary when leaving the REPL.
func printExitSummary(env *Env) {
	if pending := env.Engine.PendingCount(); pending > 0 {
		fmt.Println(queuedStyle.Render(
			fmt.Sprintf("%d message(s) still queued; they will send next time you are online.", pending)))
	}
	fmt.Println(infoStyle.Render("Goodbye."))
}
