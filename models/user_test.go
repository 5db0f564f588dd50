package models

import "testing"

func TestValidRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"admin", RoleAdmin, true},
		{"editor", RoleEditor, true},
		{"unknown", "superuser", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidRole(tt.value); got != tt.want {
				t.Fatalf("ValidRole(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	t.Parallel()

	if got := NormalizeRole("  admin  "); got != RoleAdmin {
		t.Fatalf("NormalizeRole returned %q, want %q", got, RoleAdmin)
	}

	if got := NormalizeRole("galaxy"); got != DefaultRole {
		t.Fatalf("NormalizeRole returned %q, want %q", got, DefaultRole)
	}
}
