// internal/wizard/render.go
package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ragdeck/internal/gateway"
	"ragdeck/internal/util"
)

// maxBodyRunes bounds how much of one snippet body the panel shows.
const maxBodyRunes = 600

// placeholderEntry is shown when a citation or snippet list is empty.
const placeholderEntry = "No entries available yet."

// emptyResultPlaceholder is the result panel's empty state, shown until
// a query succeeds.
const emptyResultPlaceholder = "No results yet. Run a query to see the answer here."

// entryView is the display record for one citation or snippet.
type entryView struct {
	Source string
	Score  string
	Body   string
}

// resultView is the fully projected result panel content.
type resultView struct {
	Answer    string
	Citations []entryView
	Snippets  []entryView
}

// formatScore renders a similarity score to three decimal places.
func formatScore(score float64) string {
	return fmt.Sprintf("Score: %.3f", score)
}

// projectCitations maps gateway citations to display records.
func projectCitations(citations []gateway.Citation) []entryView {
	entries := make([]entryView, 0, len(citations))
	for _, c := range citations {
		source := c.Source
		if source == "" {
			source = "unknown"
		}
		entries = append(entries, entryView{
			Source: source,
			Score:  formatScore(c.Score),
			Body:   c.Text,
		})
	}
	return entries
}

// projectSnippets maps gateway snippets to display records, falling
// back across the alternate field names the gateway may use.
func projectSnippets(snippets []gateway.Snippet) []entryView {
	entries := make([]entryView, 0, len(snippets))
	for _, s := range snippets {
		source := s.Metadata["source"]
		if source == "" {
			source = s.Source
		}
		if source == "" {
			source = "unknown"
		}
		body := s.Content
		if body == "" {
			body = s.Text
		}
		entries = append(entries, entryView{
			Source: source,
			Score:  formatScore(s.Score),
			Body:   body,
		})
	}
	return entries
}

// projectResult turns a query result into display records. A nil result
// projects to the empty state.
func projectResult(result *gateway.QueryResult) resultView {
	if result == nil {
		return resultView{}
	}
	return resultView{
		Answer:    result.Answer,
		Citations: projectCitations(result.Citations),
		Snippets:  projectSnippets(result.Snippets),
	}
}

var (
	resultTitleStyle  = lipgloss.NewStyle().Bold(true)
	resultSourceStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	resultScoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	placeholderStyle  = lipgloss.NewStyle().Faint(true)
)

// indentBlock wraps body text to the panel width and indents every line.
func indentBlock(text string, width int) string {
	wrapped := util.WrapToWidth(util.TruncateRunes(text, maxBodyRunes), width-4)
	return "    " + strings.ReplaceAll(wrapped, "\n", "\n    ")
}

// renderEntryList renders one titled list, substituting a single
// placeholder line for an empty list.
func renderEntryList(title string, entries []entryView, width int) string {
	var b strings.Builder
	b.WriteString(resultTitleStyle.Render(title) + "\n")
	if len(entries) == 0 {
		b.WriteString("  " + placeholderStyle.Render(placeholderEntry) + "\n")
		return b.String()
	}
	for _, entry := range entries {
		b.WriteString("  " + resultSourceStyle.Render(entry.Source))
		if entry.Score != "" {
			b.WriteString("  " + resultScoreStyle.Render(entry.Score))
		}
		b.WriteString("\n")
		if entry.Body != "" {
			b.WriteString(indentBlock(entry.Body, width) + "\n")
		}
	}
	return b.String()
}

// renderResult renders the whole result panel, or its empty state when
// no result is stored yet.
func renderResult(result *gateway.QueryResult, width int) string {
	if result == nil {
		return placeholderStyle.Render(emptyResultPlaceholder) + "\n"
	}
	view := projectResult(result)

	var b strings.Builder
	b.WriteString(resultTitleStyle.Render("Answer") + "\n")
	if view.Answer == "" {
		b.WriteString("  " + placeholderStyle.Render("(no answer text)") + "\n")
	} else {
		answer := util.WrapToWidth(view.Answer, width-2)
		b.WriteString("  " + strings.ReplaceAll(answer, "\n", "\n  ") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(renderEntryList("Citations", view.Citations, width))
	b.WriteString("\n")
	b.WriteString(renderEntryList("Snippets", view.Snippets, width))
	return b.String()
}
