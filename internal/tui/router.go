package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldric/opsdeck/internal/logging"
)

// navigate resolves a console-internal path into tab/cursor state. Paths come
// from entry targets and from job-id routing after an async submission.
func (m model) navigate(path string) (model, tea.Cmd) {
	switch {
	case path == "/inventory":
		m.activeTab = tabInventory
	case path == "/services":
		m.activeTab = tabServices
	case path == "/jobs":
		m.activeTab = tabJobs
	case path == "/recent":
		m.activeTab = tabRecent

	case strings.HasPrefix(path, "/objects/"):
		m.activeTab = tabInventory
		m.focusEntryByTarget(path)
	case strings.HasPrefix(path, "/services/"):
		m.activeTab = tabServices
		m.focusEntryByTarget(path)
	case strings.HasPrefix(path, "/jobs/"):
		m.activeTab = tabJobs
		m.selectedJob = strings.TrimPrefix(path, "/jobs/")
		for i, job := range m.jobs {
			if job.ID == m.selectedJob {
				m.cursors[tabJobs] = i
				break
			}
		}

	case path == "/actions/refresh-catalog":
		m.setStatus("Refreshing catalog…")
		return m, tea.Batch(m.fetchInventoryCmd(), m.fetchServicesCmd())
	case path == "/actions/prune-jobs":
		n := len(m.jobs)
		m.jobs = nil
		m.cursors[tabJobs] = 0
		m.selectedJob = ""
		m.setStatus(fmt.Sprintf("Pruned %d job(s) from this session.", n))

	case strings.HasPrefix(path, "/admin/"):
		// Admin surfaces are catalog-visible for admins but not yet built out.
		m.setStatus("Admin console ships in a later phase.")
	case path == "/help/keys":
		m.setStatus("ctrl+k commands · tab switch · enter select · esc close · q quit")

	default:
		logging.Errorf("tui: unknown navigation target %q", path)
		m.setError("Unknown destination: " + path)
	}
	return m, nil
}

// focusEntryByTarget moves the active tab's cursor onto the entry whose
// target matches the navigated path, when present in the current snapshot.
// Callers set activeTab first.
func (m *model) focusEntryByTarget(target string) {
	for i, e := range m.tabEntries() {
		if e.Target == target {
			m.cursors[m.activeTab] = i
			return
		}
	}
}
