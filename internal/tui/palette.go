package tui

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldric/opsdeck/internal/command"
)

const palettePageSize = 12

func (m *model) openPalette() {
	m.paletteOpen = true
	m.paletteQuery = ""
	m.paletteCursor = 0
	m.paletteScroll = 0
	m.rebuildPalette()
}

func (m *model) closePalette() {
	m.paletteOpen = false
	m.paletteQuery = ""
	m.paletteEntries = nil
	m.paletteCursor = 0
	m.paletteScroll = 0
}

// rebuildPalette refreshes the filtered entry list for the current query.
// Filtering is stable substring matching; the registry decides order.
func (m *model) rebuildPalette() {
	m.paletteEntries = m.registry.Entries(m.paletteQuery)
	m.paletteCursor = clampCursor(m.paletteCursor, len(m.paletteEntries))
	m.ensurePaletteCursorVisible()
}

func (m *model) ensurePaletteCursorVisible() {
	if len(m.paletteEntries) <= palettePageSize {
		m.paletteScroll = 0
		return
	}
	if m.paletteCursor < m.paletteScroll {
		m.paletteScroll = m.paletteCursor
	}
	if m.paletteCursor > m.paletteScroll+palettePageSize-1 {
		m.paletteScroll = m.paletteCursor - palettePageSize + 1
	}
	maxOffset := len(m.paletteEntries) - palettePageSize
	if m.paletteScroll > maxOffset {
		m.paletteScroll = maxOffset
	}
	if m.paletteScroll < 0 {
		m.paletteScroll = 0
	}
}

func (m model) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closePalette()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if len(m.paletteEntries) == 0 {
			m.setError("No matching command.")
			return m, nil
		}
		entry := m.paletteEntries[clampCursor(m.paletteCursor, len(m.paletteEntries))]
		m.closePalette()
		return m.triggerEntry(entry)
	case isBackspaceKey(msg):
		if len(m.paletteQuery) > 0 {
			m.paletteQuery = m.paletteQuery[:len(m.paletteQuery)-1]
			m.rebuildPalette()
		}
		return m, nil
	case msg.String() == "up" || msg.String() == "ctrl+p":
		m.paletteCursor = clampCursor(m.paletteCursor-1, len(m.paletteEntries))
		m.ensurePaletteCursorVisible()
		return m, nil
	case msg.String() == "down" || msg.String() == "ctrl+n":
		m.paletteCursor = clampCursor(m.paletteCursor+1, len(m.paletteEntries))
		m.ensurePaletteCursorVisible()
		return m, nil
	case isPrintableASCIIKey(msg.String()):
		m.paletteQuery += msg.String()
		m.paletteCursor = 0
		m.rebuildPalette()
		return m, nil
	}
	return m, nil
}

// didYouMean suggests the closest catalog label when a query matches nothing.
// Distance is taken per label word and keyword, so a one-word typo still finds
// a multi-word entry. Display hint only; it never reorders results.
func (m model) didYouMean(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ""
	}
	best := ""
	bestDist := len(query)/2 + 1 // beyond this the suggestion is noise
	for _, e := range m.registry.Snapshot() {
		terms := strings.Fields(strings.ToLower(e.Label))
		for _, kw := range e.Keywords {
			terms = append(terms, strings.ToLower(kw))
		}
		for _, term := range terms {
			if d := levenshtein.ComputeDistance(query, term); d < bestDist {
				bestDist = d
				best = e.Label
			}
		}
	}
	return best
}

func (m model) renderPalette() string {
	var lines []string

	queryText := dimStyle.Render("(type to filter)")
	if strings.TrimSpace(m.paletteQuery) != "" {
		queryText = searchInputStyle.Render(m.paletteQuery)
	}
	lines = append(lines, dimStyle.Render("Search: ")+queryText, "")

	if len(m.paletteEntries) == 0 {
		empty := "No matching commands."
		if hint := m.didYouMean(m.paletteQuery); hint != "" {
			empty += dimStyle.Render("  Did you mean ") + titleStyle.Render(hint) + dimStyle.Render("?")
		}
		lines = append(lines, empty)
		return renderModal("Commands", lines, footerHints(footerBindings(scopePalette, m.keys)))
	}

	visibleEnd := m.paletteScroll + palettePageSize
	if visibleEnd > len(m.paletteEntries) {
		visibleEnd = len(m.paletteEntries)
	}
	visible := m.paletteEntries[m.paletteScroll:visibleEnd]

	lastCategory := command.Category("")
	if m.paletteScroll > 0 {
		lastCategory = m.paletteEntries[m.paletteScroll-1].Category
	}
	for i, e := range visible {
		if e.Category != lastCategory {
			lines = append(lines, sectionTitleStyle.Render(categoryTitle(e.Category)))
			lastCategory = e.Category
		}
		idx := m.paletteScroll + i
		row := "  " + e.Label
		if e.Sublabel != "" {
			row += sublabelStyle.Render(" — " + e.Sublabel)
		}
		if idx == m.paletteCursor {
			row = cursorStyle.Render("> ") + rowSelectedStyle.Render(row[2:])
		}
		lines = append(lines, row)
	}
	if visibleEnd < len(m.paletteEntries) {
		lines = append(lines, dimStyle.Render("  …"))
	}
	return renderModal("Commands", lines, footerHints(footerBindings(scopePalette, m.keys)))
}

func categoryTitle(c command.Category) string {
	switch c {
	case command.CategoryRecent:
		return "Recent"
	case command.CategoryNavigation:
		return "Navigation"
	case command.CategoryDeploy:
		return "Deploy"
	case command.CategoryRunScript:
		return "Run Script"
	case command.CategoryService:
		return "Services"
	case command.CategoryInventory:
		return "Inventory"
	case command.CategoryAction:
		return "Actions"
	case command.CategoryAdmin:
		return "Admin"
	case command.CategoryQuickAction:
		return "Quick Actions"
	}
	return string(c)
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}

func isBackspaceKey(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyBackspace
}
