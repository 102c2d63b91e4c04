package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldric/opsdeck/internal/api"
	"github.com/aldric/opsdeck/internal/scriptform"
)

func (m model) updatePreviewModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.controller.Session()
	switch {
	case key.Matches(msg, m.keys.Close):
		return m.applyEffect(m.controller.Cancel())
	case key.Matches(msg, m.keys.Confirm):
		if s == nil || !s.PreviewReady {
			// Preview still loading; confirm has nothing to confirm yet.
			return m, nil
		}
		return m.applyEffect(m.controller.Confirm())
	}
	return m, nil
}

func (m model) updateFormModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.controller.Session()
	if s == nil || s.Form == nil {
		return m, nil
	}
	form := s.Form

	switch {
	case key.Matches(msg, m.keys.Close):
		return m.applyEffect(m.controller.Cancel())
	case key.Matches(msg, m.keys.Select):
		return m.applyEffect(m.controller.SubmitForm())
	case msg.String() == "up" || msg.String() == "shift+tab":
		m.formFocus = clampCursor(m.formFocus-1, len(form.Fields))
		m.keyCursor = 0
		return m, nil
	case msg.String() == "down" || msg.String() == "tab":
		m.formFocus = clampCursor(m.formFocus+1, len(form.Fields))
		m.keyCursor = 0
		return m, nil
	}

	fld := &form.Fields[m.formFocus]
	switch fld.Spec.Type {
	case api.InputSelect, api.InputDependentSelect:
		switch msg.String() {
		case "left":
			form.CycleOption(m.formFocus, -1)
		case "right":
			form.CycleOption(m.formFocus, 1)
		}
	case api.InputKeyMultiselect:
		opts := form.OptionsFor(m.formFocus)
		switch {
		case msg.String() == "left":
			m.keyCursor = clampCursor(m.keyCursor-1, len(opts))
		case msg.String() == "right":
			m.keyCursor = clampCursor(m.keyCursor+1, len(opts))
		case key.Matches(msg, m.keys.Toggle):
			if len(opts) > 0 {
				form.ToggleKey(m.formFocus, opts[clampCursor(m.keyCursor, len(opts))])
			}
		}
	case api.InputList:
		switch {
		case key.Matches(msg, m.keys.AddRow):
			form.AppendListRow(m.formFocus)
		case isBackspaceKey(msg):
			last := len(fld.List) - 1
			if last >= 0 && len(fld.List[last]) > 0 {
				fld.List[last] = fld.List[last][:len(fld.List[last])-1]
			}
		case isPrintableASCIIKey(msg.String()):
			last := len(fld.List) - 1
			if last >= 0 {
				fld.List[last] += msg.String()
			}
		}
	default: // text
		switch {
		case isBackspaceKey(msg):
			if len(fld.Text) > 0 {
				fld.Text = fld.Text[:len(fld.Text)-1]
			}
		case isPrintableASCIIKey(msg.String()):
			fld.Text += msg.String()
		}
	}
	return m, nil
}

func (m model) renderPreviewModal() string {
	s := m.controller.Session()
	if s == nil {
		return ""
	}
	title := "Deploy " + s.ServiceName
	var lines []string
	if !s.PreviewReady {
		lines = append(lines, dimStyle.Render("Loading preview…"))
		return renderModal(title, lines, footerHints([]key.Binding{m.keys.Close}))
	}
	if s.Preview.Summary != "" {
		lines = append(lines, s.Preview.Summary, "")
	}
	if len(s.Preview.Changes) == 0 {
		lines = append(lines, dimStyle.Render("No changes reported."))
	}
	for _, ch := range s.Preview.Changes {
		lines = append(lines, "  • "+ch)
	}
	lines = append(lines, "", dimStyle.Render("Confirm to start this deploy."))
	return renderModal(title, lines, footerHints(footerBindings(scopePreviewModal, m.keys)))
}

func (m model) renderFormModal() string {
	s := m.controller.Session()
	if s == nil || s.Form == nil {
		return ""
	}
	form := s.Form
	title := s.Script.DisplayLabel() + " · " + s.ServiceName

	var lines []string
	for i := range form.Fields {
		fld := &form.Fields[i]
		focused := i == m.formFocus

		label := fld.Spec.Label
		if label == "" {
			label = fld.Spec.Name
		}
		if fld.Spec.Required {
			label += fieldRequiredStyle.Render(" *")
		}
		if focused {
			lines = append(lines, fieldFocusedStyle.Render("› "+label))
		} else {
			lines = append(lines, fieldLabelStyle.Render("  "+label))
		}

		lines = append(lines, m.renderFieldValue(form, i, focused)...)
		if fld.Err != "" {
			lines = append(lines, fieldErrorStyle.Render("    "+fld.Err))
		}
	}
	return renderModal(title, lines, footerHints(footerBindings(scopeFormModal, m.keys)))
}

func (m model) renderFieldValue(form *scriptform.Form, i int, focused bool) []string {
	fld := &form.Fields[i]
	switch fld.Spec.Type {
	case api.InputSelect, api.InputDependentSelect:
		val := fld.Text
		if val == "" {
			val = dimStyle.Render("(none)")
		}
		if opts := form.OptionsFor(i); len(opts) == 0 && fld.Spec.Type == api.InputDependentSelect {
			if form.DeployOptions == nil {
				val += dimStyle.Render("  loading…")
			} else {
				val += dimStyle.Render("  no active deployments")
			}
		}
		return []string{"    ‹ " + val + " ›"}
	case api.InputKeyMultiselect:
		opts := form.OptionsFor(i)
		if opts == nil {
			return []string{"    " + dimStyle.Render("loading keys…")}
		}
		if len(opts) == 0 {
			return []string{"    " + dimStyle.Render("no enrollable keys")}
		}
		chosen := make(map[string]bool, len(fld.Keys))
		for _, k := range fld.Keys {
			chosen[k] = true
		}
		var parts []string
		for j, opt := range opts {
			mark := "[ ]"
			if chosen[opt] {
				mark = "[x]"
			}
			cell := mark + " " + opt
			if focused && j == clampCursor(m.keyCursor, len(opts)) {
				cell = rowSelectedStyle.Render(cell)
			}
			parts = append(parts, cell)
		}
		return []string{"    " + strings.Join(parts, "  ")}
	case api.InputList:
		out := make([]string, 0, len(fld.List))
		for j, row := range fld.List {
			cell := row
			if cell == "" {
				cell = dimStyle.Render("(empty row)")
			}
			if focused && j == len(fld.List)-1 {
				cell = searchInputStyle.Render(cell)
			}
			out = append(out, "    - "+cell)
		}
		return out
	default:
		val := fld.Text
		if focused {
			val = searchInputStyle.Render(val)
		}
		if val == "" {
			val = dimStyle.Render("(empty)")
		}
		return []string{"    " + val}
	}
}
