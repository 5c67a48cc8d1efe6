package rbac

import "testing"

func TestHasRole(t *testing.T) {
	tests := []struct {
		name     string
		actual   Role
		required Role
		want     bool
	}{
		{"admin outranks everyone", RoleAdmin, RoleWarden, true},
		{"equal roles pass", RoleRanger, RoleRanger, true},
		{"visitor cannot act as arborist", RoleVisitor, RoleArborist, false},
		{"arborist cannot act as ranger", RoleArborist, RoleRanger, false},
		{"warden can act as arborist", RoleWarden, RoleArborist, true},
		{"unknown role grants nothing", Role("Lumberjack"), RoleVisitor, false},
		{"unknown required denies all", RoleAdmin, Role("Lumberjack"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasRole(tt.actual, tt.required); got != tt.want {
				t.Errorf("HasRole(%q, %q) = %v, want %v", tt.actual, tt.required, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, r := range []Role{RoleVisitor, RoleArborist, RoleRanger, RoleWarden, RoleAdmin} {
		if !Valid(r) {
			t.Errorf("Valid(%q) = false, want true", r)
		}
	}
	if Valid(Role("")) {
		t.Error("Valid(\"\") = true, want false")
	}
}
