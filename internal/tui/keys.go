package tui

import "github.com/charmbracelet/bubbles/key"

// Keybinding scopes. The overlay precedence table resolves which scope is
// active; the footer and the key dispatch both read it.
const (
	scopeGlobal       = "global"
	scopePalette      = "palette"
	scopePreviewModal = "preview_modal"
	scopeFormModal    = "form_modal"
	scopeInventory    = "inventory"
	scopeServices     = "services"
	scopeJobs         = "jobs"
	scopeRecent       = "recent"
)

type keyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Palette  key.Binding
	UpDown   key.Binding
	Select   key.Binding
	Close    key.Binding
	Confirm  key.Binding
	Toggle   key.Binding
	Cycle    key.Binding
	AddRow   key.Binding
	Refresh  key.Binding
	GoInv    key.Binding
	GoSvc    key.Binding
	GoJobs   key.Binding
	GoRecent key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Palette:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "commands")),
		UpDown:   key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("j/k", "navigate")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Confirm:  key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter", "confirm")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Cycle:    key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "cycle")),
		AddRow:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add row")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		GoInv:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "inventory")),
		GoSvc:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "services")),
		GoJobs:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "jobs")),
		GoRecent: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "recent")),
	}
}

// footerBindings returns the hint pairs shown for the active scope.
func footerBindings(scope string, k keyMap) []key.Binding {
	switch scope {
	case scopePalette:
		return []key.Binding{k.UpDown, k.Select, k.Close}
	case scopePreviewModal:
		return []key.Binding{k.Confirm, k.Close}
	case scopeFormModal:
		return []key.Binding{k.UpDown, k.Cycle, k.Toggle, k.AddRow, k.Select, k.Close}
	case scopeJobs:
		return []key.Binding{k.UpDown, k.Palette, k.NextTab, k.Quit}
	default:
		return []key.Binding{k.UpDown, k.Select, k.Palette, k.Refresh, k.NextTab, k.Quit}
	}
}
