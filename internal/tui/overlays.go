package tui

// Shared overlay table: single source of truth for overlay priority.
//
// Two consumers read this table: Update finds the active handler for a key,
// and the footer finds the active scope for its hints. Adding a new overlay
// means one entry in the correct priority position; both consumers stay in
// sync.

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldric/opsdeck/internal/dispatch"
)

// overlayEntry defines one level in the overlay precedence chain. Guard
// returns true when the overlay is active; the first matching guard wins.
type overlayEntry struct {
	name    string
	guard   func(m model) bool
	scope   string
	handler func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd)
}

// overlayPrecedence returns the authoritative overlay priority table, ordered
// highest to lowest. A function rather than a package var to avoid
// initialization cycles through the handler closures.
func overlayPrecedence() []overlayEntry {
	return []overlayEntry{
		{
			name:    "palette",
			guard:   func(m model) bool { return m.paletteOpen },
			scope:   scopePalette,
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updatePalette(msg) },
		},
		{
			name:    "preview",
			guard:   func(m model) bool { return m.controller.Phase() == dispatch.PhasePreviewing },
			scope:   scopePreviewModal,
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updatePreviewModal(msg) },
		},
		{
			name:    "form",
			guard:   func(m model) bool { return m.controller.Phase() == dispatch.PhaseCollecting },
			scope:   scopeFormModal,
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updateFormModal(msg) },
		},
	}
}

// dispatchOverlayKey finds the first matching overlay and dispatches the key.
// Returns handled=false when no overlay matched and the caller should
// continue with tab-level dispatch.
func (m model) dispatchOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			result, cmd := entry.handler(m, msg)
			return result, cmd, true
		}
	}
	return m, nil, false
}

// activeScope returns the scope of the highest-priority active overlay, or
// the active tab's scope when none is.
func (m model) activeScope() string {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			return entry.scope
		}
	}
	return m.tabScope()
}
