package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/aldric/opsdeck/internal/command"
	"github.com/aldric/opsdeck/internal/dispatch"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(appName))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.paletteOpen:
		b.WriteString(m.renderPalette())
	case m.controller.Phase() == dispatch.PhasePreviewing:
		b.WriteString(m.renderPreviewModal())
	case m.controller.Phase() == dispatch.PhaseCollecting:
		b.WriteString(m.renderFormModal())
	default:
		b.WriteString(m.renderTabBody())
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(statusErrorStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	if m.controller.Phase() == dispatch.PhaseSubmitting {
		b.WriteString(statusStyle.Render("Submitting…"))
		b.WriteString("\n")
	}
	b.WriteString(footerHints(footerBindings(m.activeScope(), m.keys)))
	return b.String()
}

func (m model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, title := range tabTitles {
		if i == m.activeTab {
			parts = append(parts, tabActiveStyle.Render(title))
		} else {
			parts = append(parts, tabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) renderTabBody() string {
	if m.activeTab == tabJobs {
		return m.renderJobs()
	}
	entries := m.tabEntries()
	if len(entries) == 0 {
		return dimStyle.Render("  Nothing here yet.")
	}

	cursor := clampCursor(m.cursors[m.activeTab], len(entries))
	var lines []string
	idx := 0
	for _, g := range command.GroupEntries(entries) {
		// The services tab interleaves three groups; section headers keep the
		// flat ordering legible. Single-group tabs skip the header.
		if m.activeTab == tabServices {
			lines = append(lines, sectionTitleStyle.Render(categoryTitle(g.Category)))
		}
		for _, e := range g.Entries {
			row := "  " + e.Label
			if e.Sublabel != "" {
				row += sublabelStyle.Render("  " + e.Sublabel)
			}
			if idx == cursor {
				row = cursorStyle.Render("> ") + rowSelectedStyle.Render(strings.TrimPrefix(row, "  "))
			}
			lines = append(lines, row)
			idx++
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderJobs() string {
	if len(m.jobs) == 0 {
		return dimStyle.Render("  No jobs started this session.")
	}
	cursor := clampCursor(m.cursors[tabJobs], len(m.jobs))
	var lines []string
	for i, job := range m.jobs {
		row := fmt.Sprintf("  %s  %s on %s  %s",
			job.ID, job.Script, job.Service,
			sublabelStyle.Render(job.StartedAt.Format("15:04:05")))
		if job.ID == m.selectedJob {
			row += statusStyle.Render("  ◀")
		}
		if i == cursor {
			row = cursorStyle.Render("> ") + strings.TrimPrefix(row, "  ")
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// renderModal draws a bordered panel with a title line and a footer hint row.
func renderModal(title string, lines []string, footer string) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(footer)
	}
	return modalStyle.Render(b.String())
}

// footerHints renders "key action" pairs for the active scope.
func footerHints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, footerDescStyle.Render("  ·  "))
}
