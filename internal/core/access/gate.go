package access

import (
	"fmt"

	"github.com/authgate/resource-api/internal/core/domain"
)

// RouteClass is a group of routes sharing one authorization policy.
// When Authenticated is false, bearer tokens are ignored and every request
// is evaluated as the anonymous role.
type RouteClass struct {
	Name          string
	Authenticated bool
	Matrix        *Matrix
}

// Resolve returns the AuthContext the gate evaluates for this class.
func (rc *RouteClass) Resolve(ac domain.AuthContext) domain.AuthContext {
	if !rc.Authenticated {
		return domain.Anonymous()
	}
	return ac
}

// Decision is the terminal outcome of a single gate evaluation.
type Decision struct {
	Allowed  bool
	Reason   error
	Role     domain.Role
	Action   domain.Action
	Resource string
}

// Authorize evaluates ac against the class matrix. There is no intermediate
// state: the result is either Allow or Deny with a reason.
func (rc *RouteClass) Authorize(ac domain.AuthContext, action domain.Action, resource string) Decision {
	ac = rc.Resolve(ac)
	d := Decision{Role: ac.Role, Action: action, Resource: resource}

	if rc.Matrix.Permits(ac.Role, action) {
		d.Allowed = true
		return d
	}

	// An anonymous caller on an authenticated class lacks an identity rather
	// than a grant.
	if rc.Authenticated && ac.IsAnonymous() {
		d.Reason = fmt.Errorf("%w: %s on %s requires a bearer token", domain.ErrUnauthorized, action, resource)
		return d
	}
	d.Reason = fmt.Errorf("%w: role %s may not %s %s", domain.ErrForbidden, ac.Role, action, resource)
	return d
}
