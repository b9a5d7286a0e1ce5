package access

import (
	"errors"
	"testing"

	"github.com/authgate/resource-api/internal/core/domain"
)

func TestRouteClass_UnauthenticatedUsesAnonymousRole(t *testing.T) {
	rc := &RouteClass{Name: ClassV1, Authenticated: false, Matrix: LegacyOpenMatrix()}

	// Even an admin token is evaluated as anonymous on an unauthenticated class.
	d := rc.Authorize(domain.AuthContext{Subject: "kirk", Role: domain.RoleAdmin}, domain.ActionDelete, "food")
	if !d.Allowed {
		t.Fatalf("expected allow, got %v", d.Reason)
	}
	if d.Role != domain.RoleAnonymous {
		t.Fatalf("expected anonymous evaluation, got %s", d.Role)
	}
}

func TestRouteClass_UnauthenticatedStillConsultsMatrix(t *testing.T) {
	readOnly := MustMatrix(map[domain.Role]domain.ActionSet{
		domain.RoleAnonymous: domain.NewActionSet(domain.ActionRead),
		domain.RoleUser:      domain.NoActions,
		domain.RoleWriter:    domain.NoActions,
		domain.RoleEditor:    domain.NoActions,
		domain.RoleAdmin:     domain.NoActions,
	})
	rc := &RouteClass{Name: ClassV1, Matrix: readOnly}

	if d := rc.Authorize(domain.Anonymous(), domain.ActionRead, "food"); !d.Allowed {
		t.Fatalf("expected read to be allowed")
	}
	d := rc.Authorize(domain.Anonymous(), domain.ActionCreate, "food")
	if d.Allowed || !errors.Is(d.Reason, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got allowed=%v reason=%v", d.Allowed, d.Reason)
	}
}

func TestRouteClass_AuthenticatedDecisions(t *testing.T) {
	rc := &RouteClass{Name: ClassV2, Authenticated: true, Matrix: ScopedMatrix()}
	writer := domain.AuthContext{Subject: "kirk", Role: domain.RoleWriter}

	if d := rc.Authorize(writer, domain.ActionCreate, "food"); !d.Allowed {
		t.Fatalf("writer should create: %v", d.Reason)
	}

	d := rc.Authorize(writer, domain.ActionDelete, "food")
	if d.Allowed || !errors.Is(d.Reason, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got allowed=%v reason=%v", d.Allowed, d.Reason)
	}

	d = rc.Authorize(domain.Anonymous(), domain.ActionRead, "food")
	if d.Allowed || !errors.Is(d.Reason, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for anonymous caller, got allowed=%v reason=%v", d.Allowed, d.Reason)
	}
}

func TestRouteClass_DenyByDefaultAcrossResources(t *testing.T) {
	rc := &RouteClass{Name: ClassV2, Authenticated: true, Matrix: ScopedMatrix()}
	for _, role := range domain.Roles() {
		granted := rc.Matrix.PermittedActions(role)
		for _, action := range domain.Actions() {
			if granted.Has(action) {
				continue
			}
			for _, resource := range []string{"food", "clothes", "anything"} {
				ac := domain.AuthContext{Subject: "x", Role: role}
				if role == domain.RoleAnonymous {
					ac = domain.Anonymous()
				}
				if d := rc.Authorize(ac, action, resource); d.Allowed {
					t.Fatalf("%s was allowed %s on %s", role, action, resource)
				}
			}
		}
	}
}
