// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/krishiuday/kisan-tui/internal/advisory"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
)

// =============================================================================
// ADVISORY VIEW - Farm details form and generated advisory display
// =============================================================================

// advisoryState tracks which screen of the advisory view is showing.
type advisoryState int

const (
	advisoryForm advisoryState = iota
	advisoryGenerating
	advisoryResult
)

// Form field indexes, in focus order.
const (
	fieldCrop = iota
	fieldSoil
	fieldSowingDate
	fieldLandArea
	fieldIrrigation
	fieldLanguage
	fieldSubmit
	fieldCount
)

// AdvisoryDoneMsg reports a finished generation attempt.
type AdvisoryDoneMsg struct {
	Result *model.AdvisoryResult
	Err    error
}

// AdvisoryModel is the Bubble Tea model for the advisory view.
type AdvisoryModel struct {
	theme   *styles.Theme
	manager *advisory.Manager

	state advisoryState
	focus int

	// Select fields hold an index into their option list.
	cropIdx       int
	soilIdx       int
	irrigationIdx int
	languageIdx   int

	sowingDate textinput.Model
	landArea   textinput.Model

	spinner spinner.Model

	result   *model.AdvisoryResult
	stale    bool // Result came from cache, not a fresh generation
	viewport viewport.Model
	errText  string

	width  int
	height int
}

// NewAdvisory creates the advisory view.
func NewAdvisory(theme *styles.Theme, manager *advisory.Manager) AdvisoryModel {
	sowingDate := textinput.New()
	sowingDate.Prompt = ""
	sowingDate.Placeholder = "YYYY-MM-DD"
	sowingDate.CharLimit = 10
	sowingDate.Width = 12

	landArea := textinput.New()
	landArea.Prompt = ""
	landArea.Placeholder = "acres"
	landArea.CharLimit = 8
	landArea.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	vp := viewport.New(80, 20)

	m := AdvisoryModel{
		theme:      theme,
		manager:    manager,
		sowingDate: sowingDate,
		landArea:   landArea,
		spinner:    sp,
		viewport:   vp,
	}

	// Show the cached advisory straight away when one survives restart.
	if cached, err := manager.LoadCached(); err == nil {
		m.result = cached
		m.stale = true
		m.state = advisoryResult
	}
	return m
}

// SetSize updates the view dimensions.
func (m *AdvisoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 4
	m.viewport.Height = height - 4
	if m.result != nil {
		m.viewport.SetContent(m.renderResultMarkdown())
	}
}

// Result returns the advisory currently on display, cached or fresh.
func (m AdvisoryModel) Result() *model.AdvisoryResult {
	return m.result
}

// input assembles the AdvisoryInput from the form fields.
func (m AdvisoryModel) input() model.AdvisoryInput {
	return model.AdvisoryInput{
		Crop:           model.Crops[m.cropIdx],
		SoilType:       model.SoilTypes[m.soilIdx],
		SowingDate:     strings.TrimSpace(m.sowingDate.Value()),
		LandArea:       strings.TrimSpace(m.landArea.Value()),
		IrrigationType: model.IrrigationTypes[m.irrigationIdx],
	}
}

// generateCmd runs one advisory generation on a command goroutine.
func generateCmd(manager *advisory.Manager, input model.AdvisoryInput, language string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		res, err := manager.RequestAdvisory(ctx, input, language)
		return AdvisoryDoneMsg{Result: res, Err: err}
	}
}

// Update handles advisory messages and key events.
func (m AdvisoryModel) Update(msg tea.Msg) (AdvisoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case AdvisoryDoneMsg:
		if msg.Err != nil {
			m.state = advisoryForm
			m.errText = advisoryErrorText(msg.Err)
			// Fall back to the cached advisory when generation is
			// impossible offline.
			if errors.Is(msg.Err, advisory.ErrOffline) {
				if cached, err := m.manager.LoadCached(); err == nil {
					m.result = cached
					m.stale = true
					m.state = advisoryResult
					m.viewport.SetContent(m.renderResultMarkdown())
					m.viewport.GotoTop()
				}
			}
			return m, nil
		}
		m.result = msg.Result
		m.stale = false
		m.errText = ""
		m.state = advisoryResult
		m.viewport.SetContent(m.renderResultMarkdown())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.state == advisoryGenerating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == advisoryForm {
		return m, m.updateInputs(msg)
	}
	return m, nil
}

// handleKey routes key events for the current screen.
func (m AdvisoryModel) handleKey(msg tea.KeyMsg) (AdvisoryModel, tea.Cmd) {
	switch m.state {
	case advisoryResult:
		switch msg.String() {
		case "n", "esc":
			m.state = advisoryForm
			m.errText = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case advisoryGenerating:
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		return m, nil
	case "left":
		m.cycleOption(-1)
		return m, nil
	case "right":
		m.cycleOption(1)
		return m, nil
	case "enter":
		if m.focus == fieldSubmit {
			return m.submit()
		}
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "v":
		// Jump back to the cached result, if any.
		if m.result != nil && m.focus != fieldSowingDate && m.focus != fieldLandArea {
			m.state = advisoryResult
			m.viewport.SetContent(m.renderResultMarkdown())
			return m, nil
		}
	}
	return m, m.updateInputs(msg)
}

// submit validates the form and starts a generation.
func (m AdvisoryModel) submit() (AdvisoryModel, tea.Cmd) {
	in := m.input()
	if err := in.Validate(); err != nil {
		m.errText = "Fill in all fields. Sowing date must be YYYY-MM-DD and land area a number."
		return m, nil
	}
	m.state = advisoryGenerating
	m.errText = ""
	language := model.Languages[m.languageIdx]
	return m, tea.Batch(m.spinner.Tick, generateCmd(m.manager, in, language))
}

// setFocus moves form focus, managing the text inputs.
func (m *AdvisoryModel) setFocus(i int) {
	m.focus = i
	m.sowingDate.Blur()
	m.landArea.Blur()
	switch i {
	case fieldSowingDate:
		m.sowingDate.Focus()
	case fieldLandArea:
		m.landArea.Focus()
	}
}

// cycleOption rotates the focused select field by delta.
func (m *AdvisoryModel) cycleOption(delta int) {
	cycle := func(idx, n int) int { return (idx + delta + n) % n }
	switch m.focus {
	case fieldCrop:
		m.cropIdx = cycle(m.cropIdx, len(model.Crops))
	case fieldSoil:
		m.soilIdx = cycle(m.soilIdx, len(model.SoilTypes))
	case fieldIrrigation:
		m.irrigationIdx = cycle(m.irrigationIdx, len(model.IrrigationTypes))
	case fieldLanguage:
		m.languageIdx = cycle(m.languageIdx, len(model.Languages))
	}
}

// updateInputs forwards a message to the focused text input.
func (m *AdvisoryModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.sowingDate, cmd = m.sowingDate.Update(msg)
	cmds = append(cmds, cmd)
	m.landArea, cmd = m.landArea.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// View renders the advisory view.
func (m AdvisoryModel) View() string {
	switch m.state {
	case advisoryGenerating:
		return m.theme.Container.Render(
			m.spinner.View() + " " + m.theme.ThinkingText.Render("Generating your advisory..."))
	case advisoryResult:
		return m.renderResult()
	}
	return m.renderForm()
}

// renderForm renders the farm details form.
func (m AdvisoryModel) renderForm() string {
	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render("New Crop Advisory"))
	b.WriteString("\n\n")

	b.WriteString(m.renderSelect("Crop", model.Crops[m.cropIdx], fieldCrop))
	b.WriteString(m.renderSelect("Soil type", model.SoilTypes[m.soilIdx], fieldSoil))
	b.WriteString(m.renderInput("Sowing date", m.sowingDate.View(), fieldSowingDate))
	b.WriteString(m.renderInput("Land area", m.landArea.View(), fieldLandArea))
	b.WriteString(m.renderSelect("Irrigation", model.IrrigationTypes[m.irrigationIdx], fieldIrrigation))
	b.WriteString(m.renderSelect("Language", model.Languages[m.languageIdx], fieldLanguage))

	b.WriteString("\n")
	if m.focus == fieldSubmit {
		b.WriteString(m.theme.ButtonFocused.Render("Generate Advisory"))
	} else {
		b.WriteString(m.theme.Button.Render("Generate Advisory"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHint.Render("Tab to move, Left/Right to change options, Enter to submit"))
	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.FormHint.Render("Press v to view the last advisory"))
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.RenderError(m.errText))
	}

	return m.theme.Container.Render(b.String())
}

// renderSelect renders one cycling option row.
func (m AdvisoryModel) renderSelect(label, value string, field int) string {
	style := m.theme.FormField
	if m.focus == field {
		style = m.theme.FormFieldFocused
		value = "< " + value + " >"
	}
	return m.theme.FormLabel.Render(label) + style.Render(value) + "\n"
}

// renderInput renders one text input row.
func (m AdvisoryModel) renderInput(label, view string, field int) string {
	style := m.theme.FormField
	if m.focus == field {
		style = m.theme.FormFieldFocused
	}
	return m.theme.FormLabel.Render(label) + style.Render(view) + "\n"
}

// renderResult renders the generated advisory with scroll support.
func (m AdvisoryModel) renderResult() string {
	var b strings.Builder
	title := "Your Crop Advisory"
	b.WriteString(m.theme.CardTitle.Render(title))
	if m.stale {
		b.WriteString("  ")
		b.WriteString(m.theme.AdvisoryStale.Render(
			"saved " + m.result.GeneratedAt.Format("2 Jan 15:04")))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.theme.FormHint.Render("Up/Down to scroll, n for a new advisory"))
	return m.theme.Container.Render(b.String())
}

// renderResultMarkdown renders the advisory as markdown through glamour.
func (m AdvisoryModel) renderResultMarkdown() string {
	md := advisoryMarkdown(m.result)

	wrap := m.viewport.Width
	if wrap <= 0 {
		wrap = 76
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// advisoryMarkdown builds the markdown document for a result.
func advisoryMarkdown(res *model.AdvisoryResult) string {
	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString(res.Summary)
	b.WriteString("\n\n## Sowing Advice\n\n")
	b.WriteString(res.SowingAdvice)
	b.WriteString("\n\n## Fertilizer Schedule\n\n")
	for _, st := range res.FertilizerSchedule {
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", st.Stage, st.Recommendation))
	}
	b.WriteString("\n## Irrigation Plan\n\n")
	b.WriteString(res.IrrigationPlan)
	b.WriteString("\n\n## Pest Management\n\n")
	for _, p := range res.PestManagement {
		b.WriteString(fmt.Sprintf("- [%s] **%s**: %s\n", p.AlertLevel, p.PestName, p.Action))
	}
	b.WriteString("\n## Sustainability Tip\n\n")
	b.WriteString(res.SustainabilityTip)
	b.WriteString("\n")
	return b.String()
}

// advisoryErrorText maps generation errors onto farmer-readable messages.
func advisoryErrorText(err error) string {
	switch {
	case errors.Is(err, advisory.ErrOffline):
		return "You are offline. Advisory needs a connection; showing your saved advisory if available."
	case errors.Is(err, advisory.ErrBusy):
		return "An advisory is already being generated. Please wait."
	default:
		return "Could not generate an advisory. Please try again."
	}
}
