package access

import (
	"testing"

	"github.com/authgate/resource-api/internal/core/domain"
)

func TestMatrix_ExhaustiveDefaults(t *testing.T) {
	for name, m := range map[string]*Matrix{"legacy": LegacyOpenMatrix(), "scoped": ScopedMatrix()} {
		for _, role := range domain.Roles() {
			if _, ok := m.grants[role]; !ok {
				t.Fatalf("%s matrix has no entry for role %s", name, role)
			}
		}
	}
}

func TestNewMatrix_RejectsIncompleteTable(t *testing.T) {
	_, err := NewMatrix(map[domain.Role]domain.ActionSet{
		domain.RoleAdmin: domain.AllActions,
	})
	if err == nil {
		t.Fatalf("expected error for missing roles")
	}
}

func TestNewMatrix_RejectsUnknownRole(t *testing.T) {
	grants := map[domain.Role]domain.ActionSet{}
	for _, r := range domain.Roles() {
		grants[r] = domain.NoActions
	}
	grants["superuser"] = domain.AllActions
	if _, err := NewMatrix(grants); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestMatrix_PermittedActions(t *testing.T) {
	m := ScopedMatrix()

	cases := []struct {
		role    domain.Role
		allowed []domain.Action
		denied  []domain.Action
	}{
		{domain.RoleAnonymous, nil, domain.Actions()},
		{domain.RoleUser, []domain.Action{domain.ActionRead}, []domain.Action{domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete}},
		{domain.RoleWriter, []domain.Action{domain.ActionCreate, domain.ActionRead}, []domain.Action{domain.ActionUpdate, domain.ActionDelete}},
		{domain.RoleEditor, []domain.Action{domain.ActionCreate, domain.ActionRead, domain.ActionUpdate}, []domain.Action{domain.ActionDelete}},
		{domain.RoleAdmin, domain.Actions(), nil},
	}
	for _, tc := range cases {
		for _, a := range tc.allowed {
			if !m.Permits(tc.role, a) {
				t.Fatalf("%s should be permitted %s", tc.role, a)
			}
		}
		for _, a := range tc.denied {
			if m.Permits(tc.role, a) {
				t.Fatalf("%s should not be permitted %s", tc.role, a)
			}
		}
	}
}

func TestMatrix_UnknownRoleDenied(t *testing.T) {
	for _, m := range []*Matrix{LegacyOpenMatrix(), ScopedMatrix()} {
		if got := m.PermittedActions("superuser"); got != domain.NoActions {
			t.Fatalf("unknown role granted %s", got)
		}
	}
	var nilMatrix *Matrix
	if nilMatrix.Permits(domain.RoleAdmin, domain.ActionRead) {
		t.Fatalf("nil matrix must deny")
	}
}
