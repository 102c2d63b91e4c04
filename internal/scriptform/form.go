// Package scriptform renders a script's declared parameters into an editable
// value bag and validates/normalizes it at submission time. The five input
// kinds are a tagged union on ScriptInput.Type with per-kind branches; no
// type hierarchy.
package scriptform

import (
	"strings"

	"github.com/aldric/opsdeck/internal/api"
)

// Field is one editable input. Exactly one of the value slots is meaningful,
// chosen by Spec.Type: Text for scalar kinds, List for list, Keys for
// key-multiselect.
type Field struct {
	Spec api.ScriptInput
	Text string
	List []string
	Keys []string
	Err  string
}

// Form is the value bag for one script's inputs, owned by the active dispatch
// session and discarded with it.
type Form struct {
	ServiceName string
	ScriptName  string
	Fields      []Field

	// Lazily fetched option sets for dependent-select / key-multiselect.
	// Nil until the loader resolves them.
	DeployOptions []string
	KeyOptions    []string
}

// New seeds a form with the per-kind default values:
//   - text, select, dependent-select: the declared default or empty string
//   - list: a single-element array holding the declared default, else [""]
//   - key-multiselect: an empty array, never a scalar default
func New(service, script string, specs []api.ScriptInput) *Form {
	f := &Form{ServiceName: service, ScriptName: script}
	for _, spec := range specs {
		fld := Field{Spec: spec}
		switch spec.Type {
		case api.InputList:
			if spec.Default != "" {
				fld.List = []string{spec.Default}
			} else {
				fld.List = []string{""}
			}
		case api.InputKeyMultiselect:
			fld.Keys = []string{}
		default:
			fld.Text = spec.Default
		}
		f.Fields = append(f.Fields, fld)
	}
	return f
}

// NeedsDeployments reports whether the form contains a dependent-select
// input, i.e. whether the active-deployment set must be fetched.
func (f *Form) NeedsDeployments() bool {
	return f.hasKind(api.InputDependentSelect)
}

// NeedsKeys reports whether the form contains a key-multiselect input.
func (f *Form) NeedsKeys() bool {
	return f.hasKind(api.InputKeyMultiselect)
}

func (f *Form) hasKind(kind api.InputType) bool {
	for _, fld := range f.Fields {
		if fld.Spec.Type == kind {
			return true
		}
	}
	return false
}

// OptionsFor returns the selectable options of a field, resolving the
// remote-lookup kinds against the fetched sets.
func (f *Form) OptionsFor(i int) []string {
	if i < 0 || i >= len(f.Fields) {
		return nil
	}
	switch f.Fields[i].Spec.Type {
	case api.InputSelect:
		return f.Fields[i].Spec.Options
	case api.InputDependentSelect:
		return f.DeployOptions
	case api.InputKeyMultiselect:
		return f.KeyOptions
	}
	return nil
}

// CycleOption steps a select-kind field through its options by delta,
// wrapping. A field with no options is left alone.
func (f *Form) CycleOption(i, delta int) {
	opts := f.OptionsFor(i)
	if len(opts) == 0 {
		return
	}
	fld := &f.Fields[i]
	cur := -1
	for j, o := range opts {
		if o == fld.Text {
			cur = j
			break
		}
	}
	next := (cur + delta) % len(opts)
	if next < 0 {
		next += len(opts)
	}
	fld.Text = opts[next]
}

// ToggleKey flips one key identity in a key-multiselect field.
func (f *Form) ToggleKey(i int, key string) {
	if i < 0 || i >= len(f.Fields) || f.Fields[i].Spec.Type != api.InputKeyMultiselect {
		return
	}
	fld := &f.Fields[i]
	for j, k := range fld.Keys {
		if k == key {
			fld.Keys = append(fld.Keys[:j], fld.Keys[j+1:]...)
			return
		}
	}
	fld.Keys = append(fld.Keys, key)
}

// AppendListRow adds an empty row to a list field so the user can keep
// typing. Blank rows are only stripped at submission.
func (f *Form) AppendListRow(i int) {
	if i < 0 || i >= len(f.Fields) || f.Fields[i].Spec.Type != api.InputList {
		return
	}
	f.Fields[i].List = append(f.Fields[i].List, "")
}

// NormalizeList strips blank and whitespace-only rows. Idempotent.
func NormalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Submit normalizes the value bag and validates required fields against the
// normalized values. Normalization happens here and only here, so in-progress
// blank list rows survive editing. On failure the per-field Err messages are
// set, already-entered values are kept, and ok is false.
func (f *Form) Submit() (map[string]any, bool) {
	values := make(map[string]any, len(f.Fields))
	ok := true
	for i := range f.Fields {
		fld := &f.Fields[i]
		fld.Err = ""
		var empty bool
		switch fld.Spec.Type {
		case api.InputList:
			normalized := NormalizeList(fld.List)
			values[fld.Spec.Name] = normalized
			empty = len(normalized) == 0
		case api.InputKeyMultiselect:
			keys := fld.Keys
			if keys == nil {
				keys = []string{}
			}
			values[fld.Spec.Name] = keys
			empty = len(keys) == 0
		default:
			values[fld.Spec.Name] = fld.Text
			empty = fld.Text == ""
		}
		if fld.Spec.Required && empty {
			fld.Err = "required"
			ok = false
		}
	}
	if !ok {
		return nil, false
	}
	return values, true
}

// FirstError returns the name of the first field currently flagged, for the
// status line.
func (f *Form) FirstError() string {
	for _, fld := range f.Fields {
		if fld.Err != "" {
			return fld.Spec.Name
		}
	}
	return ""
}
