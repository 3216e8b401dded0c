// Package data holds the persisted records and the storage contracts the
// auth and task layers depend on. Backends live in sub-packages.
package data

import (
	"context"
	"errors"
	"time"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
)

// QueryTimeout bounds every single store call.
const QueryTimeout = 5 * time.Second

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Role is a user's authorization role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

// TaskFilter narrows a task listing. An empty Owner lists every task.
type TaskFilter struct {
	Owner string
	Limit int
}

type UserStore interface {
	InsertUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type TaskStore interface {
	// InsertTask stores t and sets its ID.
	InsertTask(ctx context.Context, t *Task) error
	ListTasks(ctx context.Context, f TaskFilter) ([]Task, error)
	// UpdateTask overwrites title and description of the task matching both
	// t.ID and t.Owner, then refreshes t from the stored record.
	UpdateTask(ctx context.Context, t *Task) error
	// DeleteTask removes the task with the given id. A non-empty owner must
	// also match.
	DeleteTask(ctx context.Context, id, owner string) error
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Store interface {
	UserStore
	TaskStore
	Pinger
	Close() error
}

// CheckAvailable returns an UNAVAILABLE error when p is missing or does not
// answer a ping.
func CheckAvailable(ctx context.Context, p Pinger) error {
	if p == nil {
		return apperr.New(apperr.CodeUnavailable, "database not connected")
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return apperr.Wrap(apperr.CodeUnavailable, "database not connected", err)
	}
	return nil
}
