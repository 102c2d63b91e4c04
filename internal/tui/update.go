package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldric/opsdeck/internal/command"
	"github.com/aldric/opsdeck/internal/dispatch"
	"github.com/aldric/opsdeck/internal/logging"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.fetchInventoryCmd(), m.fetchServicesCmd(), m.refreshTickCmd())

	case inventoryMsg:
		if msg.err != nil {
			// Degrade to an empty inventory contribution; static entries and
			// the other source keep rendering.
			logging.Errorf("tui: inventory refresh: %v", msg.err)
			m.registry.SetObjects(nil)
		} else {
			m.registry.SetObjects(msg.objects)
		}
		if m.paletteOpen {
			m.rebuildPalette()
		}
		return m, nil

	case servicesMsg:
		if msg.err != nil {
			logging.Errorf("tui: services refresh: %v", msg.err)
			m.registry.SetServices(nil)
		} else {
			m.registry.SetServices(msg.services)
		}
		if m.paletteOpen {
			m.rebuildPalette()
		}
		return m, nil

	case previewMsg:
		return m.applyEffect(m.controller.HandlePreviewResult(msg.preview, msg.err))

	case invokeMsg:
		if msg.err == nil && msg.result.JobID != "" {
			m.jobs = append([]jobRow{{
				ID:        msg.result.JobID,
				Service:   m.pending.Service,
				Script:    m.pending.Script,
				StartedAt: time.Now(),
			}}, m.jobs...)
		}
		m.pending = pendingInvoke{}
		return m.applyEffect(m.controller.HandleInvokeResult(msg.result, msg.err))

	case deployOptionsMsg:
		if s := m.controller.Session(); s != nil && s.Form != nil && s.ServiceName == msg.service {
			if msg.err != nil {
				logging.Errorf("tui: deploy options for %q: %v", msg.service, msg.err)
				s.Form.DeployOptions = []string{}
			} else {
				s.Form.DeployOptions = msg.options
			}
		}
		return m, nil

	case keyOptionsMsg:
		if s := m.controller.Session(); s != nil && s.Form != nil && s.ServiceName == msg.service {
			if msg.err != nil {
				logging.Errorf("tui: key options for %q: %v", msg.service, msg.err)
				s.Form.KeyOptions = []string{}
			} else {
				s.Form.KeyOptions = msg.options
			}
		}
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.dispatchOverlayKey(msg); handled {
			return next, cmd
		}
		return m.updateTabKey(msg)
	}
	return m, nil
}

func (m model) updateTabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.tabEntries()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Palette):
		m.openPalette()
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.GoInv):
		m.activeTab = tabInventory
		return m, nil
	case key.Matches(msg, m.keys.GoSvc):
		m.activeTab = tabServices
		return m, nil
	case key.Matches(msg, m.keys.GoJobs):
		m.activeTab = tabJobs
		return m, nil
	case key.Matches(msg, m.keys.GoRecent):
		m.activeTab = tabRecent
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing catalog…")
		return m, tea.Batch(m.fetchInventoryCmd(), m.fetchServicesCmd())
	case msg.String() == "up" || msg.String() == "k":
		m.cursors[m.activeTab] = clampCursor(m.cursors[m.activeTab]-1, m.tabRowCount())
		return m, nil
	case msg.String() == "down" || msg.String() == "j":
		m.cursors[m.activeTab] = clampCursor(m.cursors[m.activeTab]+1, m.tabRowCount())
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if m.activeTab == tabJobs {
			if len(m.jobs) > 0 {
				job := m.jobs[clampCursor(m.cursors[tabJobs], len(m.jobs))]
				m.setStatus(fmt.Sprintf("Job %s: %s on %s, started %s.",
					job.ID, job.Script, job.Service, job.StartedAt.Format("15:04:05")))
			}
			return m, nil
		}
		if len(entries) == 0 {
			return m, nil
		}
		entry := entries[clampCursor(m.cursors[m.activeTab], len(entries))]
		return m.triggerEntry(entry)
	}
	return m, nil
}

func (m model) tabRowCount() int {
	if m.activeTab == tabJobs {
		return len(m.jobs)
	}
	return len(m.tabEntries())
}

// triggerEntry hands a selected entry to the dispatch controller. All
// surfaces (palette, tab lists) go through here, so gating policy lives in
// exactly one place.
func (m model) triggerEntry(e command.Entry) (tea.Model, tea.Cmd) {
	eff := m.controller.Trigger(m.ctx, e)
	// Navigation may have touched the recency log.
	m.registry.SetRecents(m.recents.List())
	return m.applyEffect(eff)
}

// applyEffect executes a controller effect: status notices, navigation, and
// the remote calls behind previewing and submitting.
func (m model) applyEffect(eff dispatch.Effect) (tea.Model, tea.Cmd) {
	if eff.Notice != "" {
		if eff.IsError {
			m.setError(eff.Notice)
		} else {
			m.setStatus(eff.Notice)
		}
	}

	var cmds []tea.Cmd
	switch eff.Kind {
	case dispatch.EffectNavigate:
		next, cmd := m.navigate(eff.Path)
		m = next
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case dispatch.EffectFetchPreview:
		cmds = append(cmds, m.fetchPreviewCmd(eff.ServiceName))
	case dispatch.EffectInvoke:
		m.pending = pendingInvoke{Service: eff.ServiceName, Script: eff.Request.Script}
		cmds = append(cmds, m.invokeCmd(eff.ServiceName, eff.ObjectID, eff.HasObject, eff.Request))
	}

	// A freshly opened form lazily fetches its remote option sets, only when
	// the corresponding input kinds are actually present.
	if s := m.controller.Session(); s != nil && s.Phase == dispatch.PhaseCollecting && s.Form != nil {
		m.formFocus = 0
		m.keyCursor = 0
		if s.Form.NeedsDeployments() && s.Form.DeployOptions == nil {
			cmds = append(cmds, m.fetchDeployOptionsCmd(s.ServiceName))
		}
		if s.Form.NeedsKeys() && s.Form.KeyOptions == nil {
			cmds = append(cmds, m.fetchKeyOptionsCmd(s.ServiceName))
		}
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}
