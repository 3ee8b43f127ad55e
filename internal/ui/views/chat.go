// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krishiuday/kisan-tui/internal/chatsync"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
	"github.com/krishiuday/kisan-tui/internal/voice"
)

// =============================================================================
// CHAT VIEW - Assistant conversation with offline queueing
// =============================================================================

// VoiceResultMsg carries a finished voice transcription.
type VoiceResultMsg struct {
	Text string
	Err  error
}

// ChatModel is the Bubble Tea model for the chat view.
type ChatModel struct {
	theme  *styles.Theme
	engine *chatsync.Engine

	transcript []model.ChatMessage

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	waiting   bool // A compose is in flight
	listening bool // Voice capture in progress
	statusMsg string

	width  int
	height int
}

// NewChat creates the chat view seeded with the engine's transcript.
func NewChat(theme *styles.Theme, engine *chatsync.Engine) ChatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about crops, weather, or schemes..."
	ti.CharLimit = 2048
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	m := ChatModel{
		theme:      theme,
		engine:     engine,
		transcript: engine.Transcript(),
		viewport:   vp,
		input:      ti,
		spinner:    sp,
	}
	m.refreshViewport()
	return m
}

// SetSize updates the view dimensions.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 2
	m.viewport.Height = height - 4
	m.input.Width = width - 8
	m.refreshViewport()
}

// PendingCount returns the number of queued messages in the transcript.
func (m ChatModel) PendingCount() int {
	n := 0
	for _, msg := range m.transcript {
		if msg.Pending {
			n++
		}
	}
	return n
}

// Waiting reports whether a compose is in flight.
func (m ChatModel) Waiting() bool {
	return m.waiting
}

// voiceCmd captures and transcribes a spoken message.
func voiceCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		text, err := voice.Transcribe(ctx)
		return VoiceResultMsg{Text: text, Err: err}
	}
}

// Update handles chat messages and key events.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatsync.TranscriptMsg:
		m.transcript = msg.Transcript
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case chatsync.ComposeDoneMsg:
		m.waiting = false
		m.transcript = m.engine.Transcript()
		switch {
		case msg.Queued:
			m.statusMsg = "You are offline. Message saved and will send when you reconnect."
		case msg.Err != nil:
			m.statusMsg = "Could not send right now. Your message is queued for retry."
		default:
			m.statusMsg = ""
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case chatsync.ReconcileDoneMsg:
		if msg.Delivered > 0 {
			m.statusMsg = ""
			m.transcript = m.engine.Transcript()
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case VoiceResultMsg:
		m.listening = false
		if msg.Err != nil {
			m.statusMsg = "Voice input is not available on this system."
			return m, nil
		}
		m.input.SetValue(strings.TrimSpace(m.input.Value() + " " + msg.Text))
		m.input.CursorEnd()
		return m, nil

	case spinner.TickMsg:
		if m.waiting || m.listening {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key events.
func (m ChatModel) handleKey(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.waiting {
			return m, nil
		}
		m.input.SetValue("")
		m.waiting = true
		m.statusMsg = ""
		return m, tea.Batch(m.spinner.Tick, chatsync.ComposeCmd(m.engine, text))

	case "ctrl+t":
		if !voice.Supported() || m.listening {
			if !voice.Supported() {
				m.statusMsg = "Voice input is not available on this system."
			}
			return m, nil
		}
		m.listening = true
		m.statusMsg = "Listening... speak now."
		return m, tea.Batch(m.spinner.Tick, voiceCmd())

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refreshViewport re-renders the transcript into the viewport.
func (m *ChatModel) refreshViewport() {
	m.viewport.SetContent(m.renderTranscript())
}

// renderTranscript renders the message history as styled bubbles.
func (m ChatModel) renderTranscript() string {
	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for _, msg := range m.transcript {
		b.WriteString(m.renderMessage(msg, bubbleWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage renders one chat bubble.
func (m ChatModel) renderMessage(msg model.ChatMessage, maxWidth int) string {
	text := lipgloss.NewStyle().Width(minInt(maxWidth, lipgloss.Width(msg.Text)+4)).Render(msg.Text)

	switch {
	case msg.Role == model.RoleUser && msg.Pending:
		bubble := m.theme.PendingBubble.Render(text)
		marker := m.theme.PendingMarker.Render(styles.StatusIndicators.Pending + " waiting to send")
		return lipgloss.JoinVertical(lipgloss.Right, bubble, marker)
	case msg.Role == model.RoleUser:
		return m.theme.UserBubble.Render(text)
	default:
		return m.theme.AssistantBubble.Render(text)
	}
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.waiting || m.listening {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	}
	if m.statusMsg != "" {
		b.WriteString(m.theme.PendingMarker.Render(m.statusMsg))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))

	hint := "Enter to send"
	if voice.Supported() {
		hint += ", Ctrl+T to speak"
	}
	b.WriteString("\n")
	b.WriteString(m.theme.FormHint.Render(hint))

	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
