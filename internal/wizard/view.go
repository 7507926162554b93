// internal/wizard/view.go
package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ragdeck/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)

	stepActiveStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("205")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	stepInactiveStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)

	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	statusInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// stepBar renders the step indicator line with exactly one active entry.
func (m *Model) stepBar() string {
	parts := make([]string, 0, int(session.StepCount))
	for step := session.StepSetup; step < session.StepCount; step++ {
		label := fmt.Sprintf("%d. %s", int(step)+1, step)
		if step == m.state.Step {
			parts = append(parts, stepActiveStyle.Render("▶ "+label))
		} else {
			parts = append(parts, stepInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// statusView renders one status slot, or nothing when the slot is clear.
func (m *Model) statusView(target slot) string {
	if target < 0 || target >= slotCount {
		return ""
	}
	line := m.status[target]
	if line.text == "" {
		return ""
	}
	switch line.kind {
	case statusSuccess:
		return statusSuccessStyle.Render(line.text)
	case statusError:
		return statusErrorStyle.Render(line.text)
	default:
		return statusInfoStyle.Render(line.text)
	}
}

// fieldLabel renders a form label, highlighting the focused field.
func fieldLabel(label string, focused bool) string {
	if focused {
		return focusedLabelStyle.Render("> " + label)
	}
	return labelStyle.Render("  " + label)
}

func (m *Model) setupView() string {
	var b strings.Builder
	for i := range m.setupInputs {
		b.WriteString(fieldLabel(setupFieldLabels[i], m.focusIndex == i) + "\n")
		b.WriteString("  " + m.setupInputs[i].View() + "\n")
	}
	b.WriteString("\n" + m.statusView(slotSetup))
	return b.String()
}

func (m *Model) ingestView() string {
	var b strings.Builder
	b.WriteString(fieldLabel("Files", m.focusIndex == 0) + "\n")
	b.WriteString("  " + m.filesInput.View() + "\n")
	b.WriteString(fieldLabel("Manual text label", m.focusIndex == 1) + "\n")
	b.WriteString("  " + m.labelInput.View() + "\n")
	b.WriteString(fieldLabel("Manual text", m.focusIndex == 2) + "\n")
	b.WriteString(m.manualText.View() + "\n")
	if m.state.Ingest != nil {
		b.WriteString("\n" + statusInfoStyle.Render(fmt.Sprintf("Last ingest: %d chunk(s) indexed", m.state.Ingest.Chunks)) + "\n")
	}
	b.WriteString("\n" + m.statusView(slotIngest))
	return b.String()
}

func (m *Model) queryView() string {
	var b strings.Builder
	for i := range m.queryInputs {
		b.WriteString(fieldLabel(queryFieldLabels[i], m.focusIndex == i) + "\n")
		b.WriteString("  " + m.queryInputs[i].View() + "\n")
	}
	b.WriteString("\n" + m.statusView(slotQuery))
	return b.String()
}

func (m *Model) resultPanel() string {
	m.viewport.SetContent(renderResult(m.state.Query, m.viewport.Width))
	return m.viewport.View()
}

// helpLine describes the keys available on the current step.
func (m *Model) helpLine() string {
	switch m.state.Step {
	case session.StepIngest:
		return helpStyle.Render("ctrl+s ingest · tab fields · ctrl+p/ctrl+n steps · ctrl+r restart · esc quit")
	case session.StepResult:
		return helpStyle.Render("↑/↓ scroll · ctrl+p back · ctrl+r restart · esc quit")
	default:
		return helpStyle.Render("enter submit · tab fields · ctrl+p/ctrl+n steps · ctrl+r restart · esc quit")
	}
}

// View renders the wizard for the current step.
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ragdeck") + "  " + m.stepBar() + "\n\n")

	switch m.state.Step {
	case session.StepSetup:
		b.WriteString(m.setupView())
	case session.StepIngest:
		b.WriteString(m.ingestView())
	case session.StepQuery:
		b.WriteString(m.queryView())
	case session.StepResult:
		b.WriteString(m.resultPanel())
	}

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		b.WriteString(fmt.Sprintf("\n\n%s Waiting for the gateway... %ss", m.spinner.View(), timer))
	}

	b.WriteString("\n\n" + m.helpLine())
	return b.String()
}
