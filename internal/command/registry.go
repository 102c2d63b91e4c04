package command

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aldric/opsdeck/internal/api"
	"github.com/aldric/opsdeck/internal/capability"
	"github.com/aldric/opsdeck/internal/logging"
	"github.com/aldric/opsdeck/internal/recent"
)

// Registry aggregates command entries from the static catalog, the recency
// log, and the two dynamic backend sources into one flat, categorized,
// capability-filtered sequence. Every source update publishes a fresh
// immutable snapshot; readers never observe a build in progress.
type Registry struct {
	mu       sync.RWMutex
	static   []Entry
	grants   capability.Set
	recents  []recent.Item
	objects  []api.ObjectSummary
	services []api.ServiceDef
	snapshot []Entry
}

func NewRegistry(static []Entry, grants capability.Set) *Registry {
	r := &Registry{static: static, grants: grants}
	r.rebuild()
	return r
}

// SetGrants replaces the capability set (e.g. after a session refresh).
func (r *Registry) SetGrants(grants capability.Set) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants = grants
	r.rebuild()
}

// SetRecents replaces the recency contribution.
func (r *Registry) SetRecents(items []recent.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recents = items
	r.rebuild()
}

// SetObjects replaces the inventory contribution. Pass nil after a failed
// fetch: the source degrades to an empty group without touching the others.
func (r *Registry) SetObjects(objects []api.ObjectSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = objects
	r.rebuild()
}

// SetServices replaces the service-catalog contribution. Same degradation
// contract as SetObjects.
func (r *Registry) SetServices(services []api.ServiceDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = services
	r.rebuild()
}

// rebuild merges all sources, validates, capability-filters, and orders by
// the fixed group order. Within a group, source order is preserved; across
// groups the order never depends on fetch completion timing. Callers hold mu.
func (r *Registry) rebuild() {
	merged := make([]Entry, 0, len(r.static)+len(r.recents)+len(r.objects)+4*len(r.services))
	merged = append(merged, recentEntries(r.recents)...)
	merged = append(merged, r.static...)
	merged = append(merged, serviceEntries(r.services)...)
	merged = append(merged, inventoryEntries(r.objects)...)

	out := make([]Entry, 0, len(merged))
	seen := make(map[string]bool, len(merged))
	for _, e := range merged {
		if err := e.Validate(); err != nil {
			logging.Errorf("registry: dropping malformed entry: %v", err)
			continue
		}
		if seen[e.ID] {
			logging.Errorf("registry: dropping duplicate entry id %q", e.ID)
			continue
		}
		if !capability.Visible(e.RequiredPermission, r.grants) {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return categoryRank[out[i].Category] < categoryRank[out[j].Category]
	})
	r.snapshot = out
}

// Snapshot returns the full ordered, filtered entry list.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Entries returns the snapshot filtered by the live text query. Filtering is
// stable: ties keep snapshot order.
func (r *Registry) Entries(query string) []Entry {
	snap := r.Snapshot()
	out := make([]Entry, 0, len(snap))
	for _, e := range snap {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out
}

// CategoryEntries returns the snapshot restricted to the given categories,
// preserving snapshot order.
func (r *Registry) CategoryEntries(cats ...Category) []Entry {
	want := make(map[Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}
	snap := r.Snapshot()
	out := make([]Entry, 0, len(snap))
	for _, e := range snap {
		if want[e.Category] {
			out = append(out, e)
		}
	}
	return out
}

// Find looks up a snapshot entry by id.
func (r *Registry) Find(id string) (Entry, bool) {
	for _, e := range r.Snapshot() {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Group is one palette section.
type Group struct {
	Category Category
	Entries  []Entry
}

// GroupEntries splits an ordered entry sequence into its category sections.
func GroupEntries(entries []Entry) []Group {
	var out []Group
	for _, e := range entries {
		if len(out) == 0 || out[len(out)-1].Category != e.Category {
			out = append(out, Group{Category: e.Category})
		}
		out[len(out)-1].Entries = append(out[len(out)-1].Entries, e)
	}
	return out
}

func recentEntries(items []recent.Item) []Entry {
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		out = append(out, Entry{
			ID:       "recent:" + it.ID,
			Label:    it.Label,
			Icon:     it.Icon,
			Keywords: []string{"recent"},
			Category: CategoryRecent,
			Target:   it.Href,
		})
	}
	return out
}

func inventoryEntries(objects []api.ObjectSummary) []Entry {
	out := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		slug := Slugify(obj.Name)
		if slug == "" {
			slug = fmt.Sprintf("id-%d", obj.ID)
		}
		out = append(out, Entry{
			ID:                 "object:" + slug,
			Label:              obj.Name,
			Sublabel:           objectSublabel(obj),
			Icon:               "cube",
			Keywords:           []string{obj.Name, "object", "inventory"},
			Category:           CategoryInventory,
			RequiredPermission: "objects.read",
			Target:             "/objects/" + slug,
		})
		out = append(out, objectActionEntries(obj, slug)...)
	}
	return out
}

// objectActionEntries lifts an object's declared quick actions ("actions" in
// its data bag, a list of script names) into runnable entries.
func objectActionEntries(obj api.ObjectSummary, slug string) []Entry {
	raw, ok := obj.Data["actions"].([]any)
	if !ok {
		return nil
	}
	var out []Entry
	for _, a := range raw {
		name, ok := a.(string)
		if !ok || name == "" {
			continue
		}
		out = append(out, Entry{
			ID:                 "object-script:" + slug + ":" + name,
			Label:              name + " " + obj.Name,
			Sublabel:           obj.Name,
			Icon:               "bolt",
			Keywords:           []string{obj.Name, name, "object", "run"},
			Category:           CategoryQuickAction,
			RequiredPermission: "objects.run",
			Execution: &Execution{
				Kind:      KindRunScript,
				ObjectID:  obj.ID,
				HasObject: true,
				Script:    api.Script{Name: name},
			},
		})
	}
	return out
}

func objectSublabel(obj api.ObjectSummary) string {
	if kind, ok := obj.Data["kind"].(string); ok {
		return kind
	}
	return ""
}

// serviceEntries expands each service into at most one deploy entry (the
// script literally named "deploy"), one run-script entry per remaining
// script, and a navigation entry for the service itself.
func serviceEntries(services []api.ServiceDef) []Entry {
	var out []Entry
	for _, svc := range services {
		for _, script := range svc.Scripts {
			if script.Name == "deploy" {
				out = append(out, Entry{
					ID:                 "deploy:" + svc.Name,
					Label:              "Deploy " + svc.Name,
					Sublabel:           script.Label,
					Icon:               "rocket",
					Keywords:           []string{svc.Name, "deploy", "release"},
					Category:           CategoryDeploy,
					RequiredPermission: "services.deploy",
					Execution: &Execution{
						Kind:        KindDeploy,
						ServiceName: svc.Name,
						Script:      script,
					},
				})
				continue
			}
			out = append(out, Entry{
				ID:                 "script:" + svc.Name + ":" + script.Name,
				Label:              script.DisplayLabel(),
				Sublabel:           svc.Name,
				Icon:               "play",
				Keywords:           []string{svc.Name, script.Name, "script", "run"},
				Category:           CategoryRunScript,
				RequiredPermission: "services.run",
				Execution: &Execution{
					Kind:        KindRunScript,
					ServiceName: svc.Name,
					Script:      script,
				},
			})
		}
		out = append(out, Entry{
			ID:                 "service:" + svc.Name,
			Label:              svc.Name,
			Sublabel:           fmt.Sprintf("%d scripts", len(svc.Scripts)),
			Icon:               "server",
			Keywords:           []string{svc.Name, "service"},
			Category:           CategoryService,
			RequiredPermission: "services.read",
			Target:             "/services/" + svc.Name,
		})
	}
	return out
}
