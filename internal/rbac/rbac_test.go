package rbac

import "testing"

func TestCan(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		action Action
		allow  bool
	}{
		{name: "contributor read", role: RoleContributor, action: ActionRead, allow: true},
		{name: "contributor contribute", role: RoleContributor, action: ActionContribute, allow: true},
		{name: "contributor review", role: RoleContributor, action: ActionReview, allow: false},
		{name: "contributor admin", role: RoleContributor, action: ActionAdmin, allow: false},
		{name: "editor review", role: RoleEditor, action: ActionReview, allow: true},
		{name: "editor admin", role: RoleEditor, action: ActionAdmin, allow: false},
		{name: "admin review", role: RoleAdmin, action: ActionReview, allow: true},
		{name: "admin admin", role: RoleAdmin, action: ActionAdmin, allow: true},
		{name: "unknown read", role: Role("guest"), action: ActionRead, allow: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.role, tc.action); got != tc.allow {
				t.Fatalf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.allow)
			}
		})
	}
}

func TestNormalizeDefaultsToContributor(t *testing.T) {
	if got := Normalize("superuser"); got != RoleContributor {
		t.Fatalf("Normalize(superuser) = %q, want contributor", got)
	}
	if got := Normalize("admin"); got != RoleAdmin {
		t.Fatalf("Normalize(admin) = %q, want admin", got)
	}
}
