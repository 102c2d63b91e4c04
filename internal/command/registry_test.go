package command

import (
	"testing"

	"github.com/aldric/opsdeck/internal/api"
	"github.com/aldric/opsdeck/internal/capability"
	"github.com/aldric/opsdeck/internal/recent"
)

func wildcardGrants() capability.Set {
	return capability.NewSet([]string{capability.Wildcard})
}

func testServices() []api.ServiceDef {
	return []api.ServiceDef{
		{
			Name: "billing",
			Scripts: []api.Script{
				{Name: "deploy", Label: "Deploy billing"},
				{Name: "reindex", Label: "Reindex invoices"},
			},
		},
		{
			Name: "auth",
			Scripts: []api.Script{
				{Name: "rotate-keys", Label: "Rotate signing keys"},
			},
		},
	}
}

func testObjects() []api.ObjectSummary {
	return []api.ObjectSummary{
		{ID: 1, Name: "web-01", Data: map[string]any{"kind": "vm"}},
		{ID: 2, Name: "db-primary", Data: map[string]any{"kind": "database"}},
	}
}

func categoriesOf(entries []Entry) []Category {
	out := make([]Category, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Category)
	}
	return out
}

func TestRegistryGroupOrderIsFixed(t *testing.T) {
	r := NewRegistry(StaticEntries(), wildcardGrants())
	r.SetServices(testServices())
	r.SetObjects(testObjects())
	r.SetRecents([]recent.Item{{ID: "nav:jobs", Label: "Jobs", Href: "/jobs"}})

	snap := r.Snapshot()
	rank := -1
	for _, e := range snap {
		got, ok := categoryRank[e.Category]
		if !ok {
			t.Fatalf("entry %q has unranked category %q", e.ID, e.Category)
		}
		if got < rank {
			t.Fatalf("entry %q (category %q) out of order", e.ID, e.Category)
		}
		rank = got
	}
	if snap[0].Category != CategoryRecent {
		t.Fatalf("first category=%q, want recent", snap[0].Category)
	}
}

// Group order must not depend on which dynamic source resolved first.
func TestRegistryOrderIndependentOfFetchTiming(t *testing.T) {
	a := NewRegistry(StaticEntries(), wildcardGrants())
	a.SetServices(testServices())
	a.SetObjects(testObjects())

	b := NewRegistry(StaticEntries(), wildcardGrants())
	b.SetObjects(testObjects())
	b.SetServices(testServices())

	sa, sb := a.Snapshot(), b.Snapshot()
	if len(sa) != len(sb) {
		t.Fatalf("snapshot sizes differ: %d vs %d", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i].ID != sb[i].ID {
			t.Fatalf("position %d differs: %q vs %q", i, sa[i].ID, sb[i].ID)
		}
	}
}

func TestRegistryCapabilityFiltering(t *testing.T) {
	grants := capability.NewSet([]string{"objects.read", "services.read"})
	r := NewRegistry(StaticEntries(), grants)
	r.SetServices(testServices())
	r.SetObjects(testObjects())

	for _, e := range r.Snapshot() {
		switch e.Category {
		case CategoryDeploy, CategoryRunScript, CategoryAction, CategoryAdmin:
			t.Fatalf("entry %q (category %q) visible without permission", e.ID, e.Category)
		}
	}
	if len(r.CategoryEntries(CategoryInventory)) != 2 {
		t.Fatal("inventory entries should remain visible")
	}
	if len(r.CategoryEntries(CategoryService)) != 2 {
		t.Fatal("service navigation entries should remain visible")
	}

	// Widening grants republishes the gated entries.
	r.SetGrants(wildcardGrants())
	if len(r.CategoryEntries(CategoryDeploy)) != 1 {
		t.Fatal("deploy entry missing after grant widening")
	}
}

func TestRegistryServiceExpansion(t *testing.T) {
	r := NewRegistry(nil, wildcardGrants())
	r.SetServices(testServices())

	if _, ok := r.Find("deploy:billing"); !ok {
		t.Fatal("deploy script should expand into a deploy entry")
	}
	if _, ok := r.Find("script:billing:reindex"); !ok {
		t.Fatal("non-deploy script should expand into a run-script entry")
	}
	if _, ok := r.Find("script:billing:deploy"); ok {
		t.Fatal("deploy script must not also appear as run-script")
	}
	if _, ok := r.Find("service:auth"); !ok {
		t.Fatal("service navigation entry missing")
	}

	e, _ := r.Find("deploy:billing")
	if e.Execution == nil || e.Execution.Kind != KindDeploy {
		t.Fatalf("deploy entry has wrong execution: %+v", e.Execution)
	}
}

func TestRegistryObjectQuickActions(t *testing.T) {
	objects := []api.ObjectSummary{
		{ID: 7, Name: "web-01", Data: map[string]any{
			"kind":    "vm",
			"actions": []any{"restart", "collect-logs", 42, ""},
		}},
	}
	r := NewRegistry(nil, wildcardGrants())
	r.SetObjects(objects)

	e, ok := r.Find("object-script:web-01:restart")
	if !ok {
		t.Fatal("declared object action missing from snapshot")
	}
	if e.Execution == nil || !e.Execution.HasObject || e.Execution.ObjectID != 7 {
		t.Fatalf("execution=%+v, want object routing", e.Execution)
	}
	if e.Category != CategoryQuickAction {
		t.Fatalf("category=%q", e.Category)
	}
	// Non-string and empty action values are skipped, not dropped as malformed.
	if got := len(r.CategoryEntries(CategoryQuickAction)); got != 2 {
		t.Fatalf("quick actions=%d, want 2", got)
	}

	// objects.run gates the action but not the object's nav entry.
	r.SetGrants(capability.NewSet([]string{"objects.read"}))
	if _, ok := r.Find("object-script:web-01:restart"); ok {
		t.Fatal("quick action visible without objects.run")
	}
	if _, ok := r.Find("object:web-01"); !ok {
		t.Fatal("object nav entry should stay visible")
	}
}

func TestRegistryFailedSourceDegradesAlone(t *testing.T) {
	r := NewRegistry(StaticEntries(), wildcardGrants())
	r.SetServices(testServices())
	r.SetObjects(testObjects())

	before := len(r.Snapshot())
	r.SetObjects(nil) // failed inventory fetch
	after := r.Snapshot()

	if len(after) != before-2 {
		t.Fatalf("snapshot size %d after inventory failure, want %d", len(after), before-2)
	}
	if len(r.CategoryEntries(CategoryDeploy)) != 1 || len(r.CategoryEntries(CategoryNavigation)) != 4 {
		t.Fatal("other sources must survive an inventory failure")
	}
}

func TestRegistryDropsMalformedAndDuplicates(t *testing.T) {
	static := []Entry{
		{ID: "nav:a", Label: "A", Category: CategoryNavigation, Target: "/a"},
		{ID: "nav:a", Label: "A again", Category: CategoryNavigation, Target: "/a2"},
		{ID: "bad", Label: "Neither", Category: CategoryNavigation},
	}
	r := NewRegistry(static, wildcardGrants())
	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot size=%d, want 1", len(snap))
	}
	if snap[0].Label != "A" {
		t.Fatalf("kept entry=%q, want first occurrence", snap[0].Label)
	}
}

func TestRegistryEntriesFilterIsStable(t *testing.T) {
	r := NewRegistry(StaticEntries(), wildcardGrants())
	r.SetServices(testServices())

	all := r.Snapshot()
	filtered := r.Entries("billing")
	if len(filtered) == 0 {
		t.Fatal("expected matches for 'billing'")
	}
	// Filtered results keep snapshot relative order.
	pos := -1
	for _, e := range filtered {
		found := -1
		for i, s := range all {
			if s.ID == e.ID {
				found = i
				break
			}
		}
		if found < pos {
			t.Fatalf("filtered entry %q out of snapshot order", e.ID)
		}
		pos = found
	}

	if len(r.Entries("zzz-no-such")) != 0 {
		t.Fatal("expected no matches")
	}
}

func TestRecentEntriesKeepLogOrder(t *testing.T) {
	r := NewRegistry(nil, wildcardGrants())
	r.SetRecents([]recent.Item{
		{ID: "service:auth", Label: "auth", Href: "/services/auth"},
		{ID: "nav:jobs", Label: "Jobs", Href: "/jobs"},
	})
	got := r.CategoryEntries(CategoryRecent)
	if len(got) != 2 || got[0].ID != "recent:service:auth" || got[1].ID != "recent:nav:jobs" {
		t.Fatalf("recent entries wrong: %+v", categoriesOf(got))
	}
}
