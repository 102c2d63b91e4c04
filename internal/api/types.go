package api

// Wire types for the opsdeck backend. These mirror the REST payloads exactly;
// presentation-side shapes live in internal/command.

// Session describes the authenticated operator.
type Session struct {
	User        string   `json:"user"`
	Permissions []string `json:"permissions"`
}

// ObjectSummary is one row of the infrastructure inventory.
type ObjectSummary struct {
	ID   int64          `json:"id"`
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// InputType discriminates the script input kinds. The set is closed; anything
// else coming off the wire is treated as text.
type InputType string

const (
	InputText            InputType = "text"
	InputSelect          InputType = "select"
	InputList            InputType = "list"
	InputKeyMultiselect  InputType = "key-multiselect"
	InputDependentSelect InputType = "dependent-select"
)

// ScriptInput declares one parameter of a script.
type ScriptInput struct {
	Name     string    `json:"name"`
	Label    string    `json:"label,omitempty"`
	Required bool      `json:"required,omitempty"`
	Default  string    `json:"default,omitempty"`
	Type     InputType `json:"type"`
	Options  []string  `json:"options,omitempty"`
}

// Script identifies a remotely-defined executable unit and its declared
// parameters. Opaque, immutable, sourced from the service catalog.
type Script struct {
	Name   string        `json:"name"`
	Label  string        `json:"label,omitempty"`
	Inputs []ScriptInput `json:"inputs,omitempty"`
}

// DisplayLabel returns the script's label, falling back to its name.
func (s Script) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// ServiceDef is one deployable service and its script catalog.
type ServiceDef struct {
	Name    string   `json:"name"`
	Scripts []Script `json:"scripts"`
}

// DeployPreview is the dry-run summary shown before a deploy is confirmed.
// Beyond Summary/Changes the shape is opaque to the console.
type DeployPreview struct {
	Summary string   `json:"summary"`
	Changes []string `json:"changes"`
}

// InvokeRequest is the body of a run-script call.
type InvokeRequest struct {
	Script string         `json:"script"`
	Inputs map[string]any `json:"inputs"`
}

// InvokeResult is the backend's answer to a run-script call. An empty JobID
// means the script completed synchronously with nothing to watch.
type InvokeResult struct {
	JobID string `json:"job_id,omitempty"`
}
