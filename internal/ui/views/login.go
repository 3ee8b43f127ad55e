// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krishiuday/kisan-tui/internal/identity"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN VIEW - Phone number entry, OTP confirmation, profile completion
// =============================================================================

// loginStep tracks progress through the sign-in flow.
type loginStep int

const (
	stepPhone loginStep = iota // Enter country code + phone number
	stepCode                   // Enter the one-time code
	stepName                   // First sign-in: enter first/last name
)

// challengeMsg reports the outcome of initiating a verification challenge.
type challengeMsg struct {
	challenge *identity.Challenge
	err       error
}

// confirmMsg reports the outcome of confirming a code.
type confirmMsg struct {
	confirmation *identity.Confirmation
	err          error
}

// DevCodeMsg surfaces a locally generated verification code. Only the local
// identity provider emits these; with a real provider the code arrives by SMS.
type DevCodeMsg struct {
	Code string
}

// LoginDoneMsg is emitted when the flow completes with a full profile.
type LoginDoneMsg struct {
	Profile model.UserProfile
}

// LoginModel is the Bubble Tea model for the sign-in screen.
type LoginModel struct {
	theme    *styles.Theme
	provider identity.Provider

	step      loginStep
	country   textinput.Model
	phone     textinput.Model
	code      textinput.Model
	firstName textinput.Model
	lastName  textinput.Model
	focus     int // index within the current step's inputs

	challenge *identity.Challenge
	verified  *identity.Confirmation

	waiting bool
	errText string
	devCode string

	width  int
	height int
}

// NewLogin creates the login view.
func NewLogin(theme *styles.Theme, provider identity.Provider) LoginModel {
	country := textinput.New()
	country.Prompt = ""
	country.Placeholder = "+91"
	country.CharLimit = 4
	country.Width = 6
	country.Focus()

	phone := textinput.New()
	phone.Prompt = ""
	phone.Placeholder = "98765 43210"
	phone.CharLimit = 14
	phone.Width = 20

	code := textinput.New()
	code.Prompt = ""
	code.Placeholder = "6-digit code"
	code.CharLimit = 8
	code.Width = 12

	firstName := textinput.New()
	firstName.Prompt = ""
	firstName.Placeholder = "First name"
	firstName.CharLimit = 40
	firstName.Width = 24

	lastName := textinput.New()
	lastName.Prompt = ""
	lastName.Placeholder = "Last name"
	lastName.CharLimit = 40
	lastName.Width = 24

	return LoginModel{
		theme:     theme,
		provider:  provider,
		step:      stepPhone,
		country:   country,
		phone:     phone,
		code:      code,
		firstName: firstName,
		lastName:  lastName,
	}
}

// SetSize updates the view dimensions.
func (m *LoginModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// initiateCmd asks the provider to start a phone verification.
func initiateCmd(provider identity.Provider, phoneNumber string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		ch, err := provider.InitiateChallenge(ctx, phoneNumber)
		return challengeMsg{challenge: ch, err: err}
	}
}

// confirmCmd submits the entered code against the outstanding challenge.
func confirmCmd(provider identity.Provider, challenge *identity.Challenge, code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		conf, err := provider.ConfirmChallenge(ctx, challenge, code)
		return confirmMsg{confirmation: conf, err: err}
	}
}

// Update handles login messages and key events.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case challengeMsg:
		m.waiting = false
		if msg.err != nil {
			m.errText = loginErrorText(msg.err)
			return m, nil
		}
		m.challenge = msg.challenge
		m.step = stepCode
		m.errText = ""
		m.code.Focus()
		return m, nil

	case confirmMsg:
		m.waiting = false
		if msg.err != nil {
			m.errText = loginErrorText(msg.err)
			if errors.Is(msg.err, identity.ErrExpired) {
				// The challenge is spent; start over with a fresh code.
				m.step = stepPhone
				m.challenge = nil
				m.code.SetValue("")
				m.country.Focus()
				m.focus = 0
			}
			return m, nil
		}
		m.verified = msg.confirmation
		m.step = stepName
		m.errText = ""
		m.focus = 0
		m.firstName.Focus()
		return m, nil

	case DevCodeMsg:
		m.devCode = msg.Code
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateInputs(msg)
}

// handleKey routes key events for the current step.
func (m LoginModel) handleKey(msg tea.KeyMsg) (LoginModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()
	case "tab", "shift+tab", "up", "down":
		m.cycleFocus(msg.String() == "shift+tab" || msg.String() == "up")
		return m, nil
	case "esc":
		if m.step == stepCode {
			m.step = stepPhone
			m.challenge = nil
			m.code.SetValue("")
			m.errText = ""
			m.country.Focus()
			m.focus = 0
		}
		return m, nil
	}
	return m, m.updateInputs(msg)
}

// submit advances the flow for the current step.
func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	if m.waiting {
		return m, nil
	}

	switch m.step {
	case stepPhone:
		country := strings.TrimSpace(m.country.Value())
		if country == "" {
			country = "+91"
		}
		number := strings.ReplaceAll(strings.TrimSpace(m.phone.Value()), " ", "")
		if !identity.ValidNumber(country, number) {
			m.errText = "Enter a valid country code and phone number."
			return m, nil
		}
		m.waiting = true
		m.errText = ""
		return m, initiateCmd(m.provider, identity.FullNumber(country, number))

	case stepCode:
		code := strings.TrimSpace(m.code.Value())
		if code == "" {
			m.errText = "Enter the code you received."
			return m, nil
		}
		m.waiting = true
		m.errText = ""
		return m, confirmCmd(m.provider, m.challenge, code)

	case stepName:
		first := strings.TrimSpace(m.firstName.Value())
		last := strings.TrimSpace(m.lastName.Value())
		if first == "" {
			m.errText = "First name is required."
			return m, nil
		}
		country := strings.TrimSpace(m.country.Value())
		if country == "" {
			country = "+91"
		}
		profile := model.UserProfile{
			CountryCode: country,
			PhoneNumber: strings.ReplaceAll(strings.TrimSpace(m.phone.Value()), " ", ""),
			FirstName:   first,
			LastName:    last,
		}
		return m, func() tea.Msg { return LoginDoneMsg{Profile: profile} }
	}
	return m, nil
}

// cycleFocus moves focus between the inputs of the current step.
func (m *LoginModel) cycleFocus(backward bool) {
	inputs := m.stepInputs()
	if len(inputs) < 2 {
		return
	}
	if backward {
		m.focus = (m.focus - 1 + len(inputs)) % len(inputs)
	} else {
		m.focus = (m.focus + 1) % len(inputs)
	}
	for i, in := range inputs {
		if i == m.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// stepInputs returns the inputs participating in the current step.
func (m *LoginModel) stepInputs() []*textinput.Model {
	switch m.step {
	case stepPhone:
		return []*textinput.Model{&m.country, &m.phone}
	case stepCode:
		return []*textinput.Model{&m.code}
	case stepName:
		return []*textinput.Model{&m.firstName, &m.lastName}
	}
	return nil
}

// updateInputs forwards a message to whichever input is focused.
func (m *LoginModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, in := range m.stepInputs() {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// View renders the login screen.
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.WelcomeLogo.Render("Kisan Sahayak"))
	b.WriteString("\n")
	b.WriteString(m.theme.WelcomeInfo.Render("Sign in with your phone number"))
	b.WriteString("\n\n")

	switch m.step {
	case stepPhone:
		b.WriteString(m.theme.FormLabel.Render("Country code"))
		b.WriteString(m.fieldStyle(0).Render(m.country.View()))
		b.WriteString("\n")
		b.WriteString(m.theme.FormLabel.Render("Phone number"))
		b.WriteString(m.fieldStyle(1).Render(m.phone.View()))
		b.WriteString("\n\n")
		b.WriteString(m.theme.FormHint.Render("Enter to send code, Tab to switch fields"))

	case stepCode:
		b.WriteString(m.theme.WelcomeInfo.Render("Code sent to " + m.challenge.PhoneNumber))
		b.WriteString("\n\n")
		b.WriteString(m.theme.FormLabel.Render("Code"))
		b.WriteString(m.fieldStyle(0).Render(m.code.View()))
		b.WriteString("\n\n")
		if m.devCode != "" {
			b.WriteString(m.theme.FormHint.Render("Dev code: " + m.devCode))
			b.WriteString("\n")
		}
		b.WriteString(m.theme.FormHint.Render("Enter to verify, Esc to change number"))

	case stepName:
		b.WriteString(m.theme.WelcomeInfo.Render("Welcome! Tell us your name."))
		b.WriteString("\n\n")
		b.WriteString(m.theme.FormLabel.Render("First name"))
		b.WriteString(m.fieldStyle(0).Render(m.firstName.View()))
		b.WriteString("\n")
		b.WriteString(m.theme.FormLabel.Render("Last name"))
		b.WriteString(m.fieldStyle(1).Render(m.lastName.View()))
		b.WriteString("\n\n")
		b.WriteString(m.theme.FormHint.Render("Enter to finish"))
	}

	if m.waiting {
		b.WriteString("\n\n")
		b.WriteString(m.theme.ThinkingText.Render("Please wait..."))
	}
	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.RenderError(m.errText))
	}

	box := m.theme.WelcomeBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// fieldStyle picks the focused or blurred form style for input i.
func (m LoginModel) fieldStyle(i int) lipgloss.Style {
	if i == m.focus {
		return m.theme.FormFieldFocused
	}
	return m.theme.FormField
}

// loginErrorText maps identity errors onto farmer-readable messages.
func loginErrorText(err error) string {
	switch {
	case errors.Is(err, identity.ErrInvalidNumber):
		return "That phone number doesn't look right. Check and try again."
	case errors.Is(err, identity.ErrTooManyRequests):
		return "Too many attempts. Wait a moment and try again."
	case errors.Is(err, identity.ErrInvalidCode):
		return "Wrong code. Check the message and try again."
	case errors.Is(err, identity.ErrExpired):
		return "That code expired. We'll send a new one."
	case errors.Is(err, identity.ErrConfigError):
		return "Sign-in is not configured. Check your identity settings."
	default:
		return "Sign-in failed. Please try again."
	}
}
