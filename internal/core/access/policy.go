package access

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/authgate/resource-api/internal/core/domain"
)

const (
	ClassV1 = "v1"
	ClassV2 = "v2"
)

// Policy is the process-wide set of route classes, keyed by name.
type Policy struct {
	classes map[string]*RouteClass
}

// Class returns the named route class.
func (p *Policy) Class(name string) (*RouteClass, bool) {
	rc, ok := p.classes[name]
	return rc, ok
}

// DefaultPolicy keeps v1 open to anonymous callers and scopes v2 by role.
func DefaultPolicy() *Policy {
	return &Policy{classes: map[string]*RouteClass{
		ClassV1: {Name: ClassV1, Authenticated: false, Matrix: LegacyOpenMatrix()},
		ClassV2: {Name: ClassV2, Authenticated: true, Matrix: ScopedMatrix()},
	}}
}

type policyFile struct {
	RouteClasses map[string]struct {
		Authenticated bool                `yaml:"authenticated"`
		Grants        map[string][]string `yaml:"grants"`
	} `yaml:"route_classes"`
}

// LoadPolicy reads route classes from a YAML document. An empty path yields
// DefaultPolicy. Roles omitted from a class are granted nothing; both v1 and
// v2 must be present.
//
//	route_classes:
//	  v1:
//	    authenticated: false
//	    grants:
//	      anonymous: [create, read, update, delete]
//	  v2:
//	    authenticated: true
//	    grants:
//	      user: [read]
//	      admin: [create, read, update, delete]
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy document.
func ParsePolicy(data []byte) (*Policy, error) {
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}

	p := &Policy{classes: make(map[string]*RouteClass, len(pf.RouteClasses))}
	for name, rc := range pf.RouteClasses {
		grants := make(map[domain.Role]domain.ActionSet, len(domain.Roles()))
		for _, role := range domain.Roles() {
			grants[role] = domain.NoActions
		}
		for rawRole, rawActions := range rc.Grants {
			role := domain.Role(rawRole)
			if !role.Valid() {
				return nil, fmt.Errorf("policy %s: unknown role %q", name, rawRole)
			}
			actions := make([]domain.Action, 0, len(rawActions))
			for _, ra := range rawActions {
				a, err := domain.ParseAction(ra)
				if err != nil {
					return nil, fmt.Errorf("policy %s/%s: %w", name, rawRole, err)
				}
				actions = append(actions, a)
			}
			grants[role] = domain.NewActionSet(actions...)
		}
		m, err := NewMatrix(grants)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", name, err)
		}
		p.classes[name] = &RouteClass{Name: name, Authenticated: rc.Authenticated, Matrix: m}
	}

	for _, required := range []string{ClassV1, ClassV2} {
		if _, ok := p.classes[required]; !ok {
			return nil, fmt.Errorf("policy: route class %q is not defined", required)
		}
	}
	return p, nil
}
