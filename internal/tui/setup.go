// ABOUTME: Interactive TUI wizard for configuring the Inoreader user, vault, and tags.
// ABOUTME: 3-step bubbletea model; the user id is required, the other steps have defaults.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step represents the current wizard step.
type Step int

const (
	StepUserID Step = iota
	StepVaultDir
	StepTags
	StepDone
)

const stepCount = 3

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step     Step
	inputs   [stepCount]textinput.Model
	errMsg   string
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// DefaultVaultDir is used when the vault step is left empty.
const DefaultVaultDir = "."

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(userID, vaultDir string, tags []string) SetupModel {
	userInput := textinput.New()
	userInput.Placeholder = "1005123456"
	userInput.Focus()
	userInput.Width = 50
	userInput.SetValue(userID)

	vaultInput := textinput.New()
	vaultInput.Placeholder = "~/Documents/Obsidian"
	vaultInput.Width = 50
	vaultInput.SetValue(vaultDir)

	tagsInput := textinput.New()
	tagsInput.Placeholder = "golang, Tech News"
	tagsInput.Width = 50
	tagsInput.SetValue(strings.Join(tags, ", "))

	return SetupModel{
		step:   StepUserID,
		inputs: [stepCount]textinput.Model{userInput, vaultInput, tagsInput},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) editing() bool {
	return m.step < StepDone
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		if m.editing() {
			return m.updateInput(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the active input
		if m.editing() {
			idx := int(m.step)
			var cmd tea.Cmd
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) handleEnter() (tea.Model, tea.Cmd) {
	idx := int(m.step)
	val := strings.TrimSpace(m.inputs[idx].Value())

	switch m.step {
	case StepUserID:
		if val == "" {
			m.errMsg = "User ID is required"
			return m, nil
		}
	case StepVaultDir:
		if val == "" {
			val = DefaultVaultDir
		}
	case StepTags:
		val = strings.Join(SplitTags(val), ", ")
	}
	m.inputs[idx].SetValue(val)
	m.errMsg = ""
	m.inputs[idx].Blur()

	m.step++
	if m.step == StepDone {
		return m, tea.Quit
	}
	m.inputs[m.step].Focus()
	return m, textinput.Blink
}

// SplitTags splits a comma-separated list, dropping blanks and duplicates.
func SplitTags(s string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   INOSYNC"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Mirror Inoreader tags into your Markdown vault.\n\n")

	switch m.step {
	case StepUserID:
		b.WriteString(stepStyle.Render("Step 1 of 3: Inoreader User ID"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(the number in your public tag URLs, required)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepVaultDir:
		b.WriteString(fmt.Sprintf("  User ID: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: Vault Directory"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", DefaultVaultDir)))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepTags:
		b.WriteString(fmt.Sprintf("  User ID: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Vault:   %s\n\n", m.inputs[1].Value()))
		b.WriteString(stepStyle.Render("Step 3 of 3: Tags"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(comma-separated, may be left empty)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("Setup complete! Configuration saved."))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  User ID: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Vault:   %s\n", m.inputs[1].Value()))
		b.WriteString(fmt.Sprintf("  Tags:    %s\n", m.inputs[2].Value()))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (userID, vaultDir string, tags []string) {
	return m.inputs[0].Value(), m.inputs[1].Value(), SplitTags(m.inputs[2].Value())
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
