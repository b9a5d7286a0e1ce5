package domain

import "time"

// AuthEventKind classifies an entry in the authentication audit trail.
type AuthEventKind string

const (
	EventSignUp        AuthEventKind = "signup"
	EventSignIn        AuthEventKind = "signin"
	EventSignInFailure AuthEventKind = "signin_failure"
	EventAccessDenied  AuthEventKind = "access_denied"
)

// AuthEvent is an audit record. It never carries passwords, hashes or tokens.
type AuthEvent struct {
	Kind       AuthEventKind
	Username   string
	Role       Role
	Action     Action
	Model      string
	RouteClass string
	Reason     string
	Timestamp  time.Time
}
