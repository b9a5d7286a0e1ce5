// Package access holds the capability matrix and the authorization gate.
//
// A Matrix maps every known role to the set of CRUD actions it is granted.
// It is built once at startup and only read afterwards, so it is shared
// across requests without locking. Roles absent from the matrix, or values
// outside the known role set, are granted nothing.
package access

import (
	"fmt"

	"github.com/authgate/resource-api/internal/core/domain"
)

// Matrix is an immutable role → actions table.
type Matrix struct {
	grants map[domain.Role]domain.ActionSet
}

// NewMatrix builds a matrix. Every role in domain.Roles must have an entry
// (possibly domain.NoActions) and no unknown role may appear.
func NewMatrix(grants map[domain.Role]domain.ActionSet) (*Matrix, error) {
	for role := range grants {
		if !role.Valid() {
			return nil, fmt.Errorf("capability matrix: unknown role %q", role)
		}
	}
	m := &Matrix{grants: make(map[domain.Role]domain.ActionSet, len(grants))}
	for _, role := range domain.Roles() {
		set, ok := grants[role]
		if !ok {
			return nil, fmt.Errorf("capability matrix: no entry for role %q", role)
		}
		m.grants[role] = set
	}
	return m, nil
}

// MustMatrix is NewMatrix for static tables; it panics on an incomplete table.
func MustMatrix(grants map[domain.Role]domain.ActionSet) *Matrix {
	m, err := NewMatrix(grants)
	if err != nil {
		panic(err)
	}
	return m
}

// PermittedActions returns the actions granted to role. Unknown roles get
// the empty set.
func (m *Matrix) PermittedActions(role domain.Role) domain.ActionSet {
	if m == nil {
		return domain.NoActions
	}
	return m.grants[role]
}

// Permits reports whether role is granted action.
func (m *Matrix) Permits(role domain.Role, action domain.Action) bool {
	return m.PermittedActions(role).Has(action)
}

// LegacyOpenMatrix grants full CRUD to anonymous callers only.
func LegacyOpenMatrix() *Matrix {
	return MustMatrix(map[domain.Role]domain.ActionSet{
		domain.RoleAnonymous: domain.AllActions,
		domain.RoleUser:      domain.NoActions,
		domain.RoleWriter:    domain.NoActions,
		domain.RoleEditor:    domain.NoActions,
		domain.RoleAdmin:     domain.NoActions,
	})
}

// ScopedMatrix grants nothing to anonymous callers and scales CRUD by role.
func ScopedMatrix() *Matrix {
	return MustMatrix(map[domain.Role]domain.ActionSet{
		domain.RoleAnonymous: domain.NoActions,
		domain.RoleUser:      domain.NewActionSet(domain.ActionRead),
		domain.RoleWriter:    domain.NewActionSet(domain.ActionCreate, domain.ActionRead),
		domain.RoleEditor:    domain.NewActionSet(domain.ActionCreate, domain.ActionRead, domain.ActionUpdate),
		domain.RoleAdmin:     domain.AllActions,
	})
}
