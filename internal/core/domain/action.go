package domain

import (
	"fmt"
	"strings"
)

// Action is a CRUD operation a role may be granted.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists every action in canonical order.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
}

func (a Action) bit() ActionSet {
	switch a {
	case ActionCreate:
		return 1 << 0
	case ActionRead:
		return 1 << 1
	case ActionUpdate:
		return 1 << 2
	case ActionDelete:
		return 1 << 3
	}
	return 0
}

// ParseAction converts a raw action name into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if a.bit() == 0 {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

// ActionSet is an immutable set of actions.
type ActionSet uint8

// NoActions is the empty set.
const NoActions ActionSet = 0

// AllActions grants full CRUD.
var AllActions = NewActionSet(ActionCreate, ActionRead, ActionUpdate, ActionDelete)

// NewActionSet builds a set from the given actions. Unknown actions are ignored.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= a.bit()
	}
	return s
}

// Has reports whether a is a member of the set.
func (s ActionSet) Has(a Action) bool {
	b := a.bit()
	return b != 0 && s&b == b
}

// List returns the members of the set in canonical order.
func (s ActionSet) List() []Action {
	out := make([]Action, 0, 4)
	for _, a := range Actions() {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	parts := make([]string, 0, 4)
	for _, a := range s.List() {
		parts = append(parts, string(a))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
