package capability

import "testing"

func TestVisible(t *testing.T) {
	tests := []struct {
		name     string
		required string
		granted  []string
		want     bool
	}{
		{name: "no_requirement_empty_grants", required: "", granted: nil, want: true},
		{name: "no_requirement_some_grants", required: "", granted: []string{"objects.read"}, want: true},
		{name: "exact_match", required: "services.deploy", granted: []string{"services.deploy"}, want: true},
		{name: "missing_permission", required: "services.deploy", granted: []string{"services.read"}, want: false},
		{name: "wildcard_grants_everything", required: "admin.users", granted: []string{"*"}, want: true},
		{name: "wildcard_among_others", required: "system.maintenance", granted: []string{"objects.read", "*"}, want: true},
		{name: "empty_grants_hides_gated", required: "objects.read", granted: nil, want: false},
		{name: "no_partial_prefix_match", required: "admin.users", granted: []string{"admin"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(tt.required, NewSet(tt.granted))
			if got != tt.want {
				t.Fatalf("Visible(%q, %v)=%v, want %v", tt.required, tt.granted, got, tt.want)
			}
		})
	}
}

func TestSetHas(t *testing.T) {
	s := NewSet([]string{"a.b", "c.d"})
	if !s.Has("a.b") || !s.Has("c.d") {
		t.Fatal("expected granted permissions present")
	}
	if s.Has("e.f") {
		t.Fatal("unexpected permission present")
	}
	if s.Has(Wildcard) {
		t.Fatal("wildcard should not be implied")
	}
}
