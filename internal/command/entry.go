package command

import (
	"fmt"
	"strings"

	"github.com/aldric/opsdeck/internal/api"
)

// Category groups entries in the palette. Used only for grouping and ordering,
// never for dispatch decisions.
type Category string

const (
	CategoryRecent      Category = "recent"
	CategoryNavigation  Category = "navigation"
	CategoryDeploy      Category = "deploy"
	CategoryRunScript   Category = "run-script"
	CategoryService     Category = "service"
	CategoryInventory   Category = "inventory"
	CategoryAction      Category = "action"
	CategoryAdmin       Category = "admin"
	CategoryQuickAction Category = "quick-action"
)

// categoryOrder is the fixed group order of a registry build. Entries within a
// group keep their source order.
var categoryOrder = []Category{
	CategoryRecent,
	CategoryNavigation,
	CategoryDeploy,
	CategoryRunScript,
	CategoryService,
	CategoryInventory,
	CategoryAction,
	CategoryAdmin,
	CategoryQuickAction,
}

var categoryRank = func() map[Category]int {
	m := make(map[Category]int, len(categoryOrder))
	for i, c := range categoryOrder {
		m[c] = i
	}
	return m
}()

// ExecKind discriminates the two remote execution shapes.
type ExecKind string

const (
	KindDeploy    ExecKind = "deploy"
	KindRunScript ExecKind = "run-script"
)

// Execution declares the remote invocation an entry performs when selected.
type Execution struct {
	Kind        ExecKind
	ServiceName string
	ObjectID    int64
	HasObject   bool
	Script      api.Script
}

// Entry is one selectable unit in the unified catalog: either a navigation
// target or a remote execution, never both, never neither.
type Entry struct {
	ID                 string
	Label              string
	Sublabel           string
	Icon               string
	Keywords           []string
	Category           Category
	RequiredPermission string
	Target             string
	Execution          *Execution
}

// Validate enforces the target-XOR-execution invariant. A violating entry is a
// programming error in the producing source; the registry logs and drops it.
func (e Entry) Validate() error {
	hasTarget := strings.TrimSpace(e.Target) != ""
	hasExec := e.Execution != nil
	switch {
	case hasTarget && hasExec:
		return fmt.Errorf("entry %q has both target and execution", e.ID)
	case !hasTarget && !hasExec:
		return fmt.Errorf("entry %q has neither target nor execution", e.ID)
	}
	if hasExec && e.Execution.Kind != KindDeploy && e.Execution.Kind != KindRunScript {
		return fmt.Errorf("entry %q has unknown execution kind %q", e.ID, e.Execution.Kind)
	}
	return nil
}

// Matches reports whether the entry matches the live text query:
// case-insensitive substring over label and keywords. No relevance scoring;
// result order is left to the caller's stable iteration.
func (e Entry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Label), q) {
		return true
	}
	for _, kw := range e.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

// Slugify derives the stable path slug for an inventory object name.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
