// Package policy decides whether a caller may act on a task.
//
// Decisions are pure functions of the caller's identity, the caller's role
// and, where relevant, the resource owner. An ownership mismatch on update or
// delete is reported as not-found so that non-owners cannot probe for the
// existence of other users' tasks.
package policy

import (
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

// Principal is the authenticated caller, as reconstructed from a token.
type Principal struct {
	Email string
	Role  data.Role
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == data.RoleAdmin
}

// Action is an operation kind on tasks.
type Action int

const (
	ActionCreate Action = iota
	ActionReadAll
	ActionReadMine
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionReadAll:
		return "read_all"
	case ActionReadMine:
		return "read_mine"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Scope is the record guard an allowed action runs under. An empty Owner
// matches every record.
type Scope struct {
	Owner string
}

// Permits reports whether a record owned by owner falls inside the scope.
func (s Scope) Permits(owner string) bool {
	return s.Owner == "" || s.Owner == owner
}

// ScopeFor returns the guard for a before any record is loaded. It fails only
// for actions denied regardless of the record, which today is read_all for
// non-admins.
func ScopeFor(p Principal, a Action) (Scope, error) {
	if p.Email == "" {
		return Scope{}, apperr.New(apperr.CodeUnauthenticated, "could not validate credentials")
	}
	switch a {
	case ActionCreate, ActionReadMine, ActionUpdate:
		return Scope{Owner: p.Email}, nil
	case ActionReadAll:
		if !p.IsAdmin() {
			return Scope{}, apperr.New(apperr.CodeForbidden, "admins only")
		}
		return Scope{}, nil
	case ActionDelete:
		if p.IsAdmin() {
			return Scope{}, nil
		}
		return Scope{Owner: p.Email}, nil
	default:
		return Scope{}, apperr.New(apperr.CodeForbidden, "unknown action")
	}
}

// Authorize decides a on a record owned by owner.
func Authorize(p Principal, a Action, owner string) error {
	scope, err := ScopeFor(p, a)
	if err != nil {
		return err
	}
	if a == ActionCreate {
		// The caller becomes the owner.
		return nil
	}
	if !scope.Permits(owner) {
		return apperr.New(apperr.CodeNotFound, "task not found")
	}
	return nil
}
