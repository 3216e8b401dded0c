// Package tasks runs task CRUD under the authorization policy. Each operation
// takes the caller's principal, derives a policy scope and hands the store a
// guarded query.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/policy"
)

// PageSize caps every listing.
const PageSize = 100

// Store is the slice of the store the task service needs.
type Store interface {
	data.TaskStore
	data.Pinger
}

// Input carries the mutable task fields.
type Input struct {
	Title       string
	Description string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) begin(ctx context.Context, p policy.Principal, a policy.Action) (policy.Scope, error) {
	if err := data.CheckAvailable(ctx, s.store); err != nil {
		return policy.Scope{}, err
	}
	return policy.ScopeFor(p, a)
}

// Create stores a new task owned by the caller.
func (s *Service) Create(ctx context.Context, p policy.Principal, in Input) (*data.Task, error) {
	scope, err := s.begin(ctx, p, policy.ActionCreate)
	if err != nil {
		return nil, err
	}
	t := &data.Task{Title: in.Title, Description: in.Description, Owner: scope.Owner}
	if err := s.store.InsertTask(ctx, t); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// ListAll returns up to PageSize tasks of every owner. Admins only.
func (s *Service) ListAll(ctx context.Context, p policy.Principal) ([]data.Task, error) {
	return s.list(ctx, p, policy.ActionReadAll)
}

// ListMine returns up to PageSize tasks owned by the caller.
func (s *Service) ListMine(ctx context.Context, p policy.Principal) ([]data.Task, error) {
	return s.list(ctx, p, policy.ActionReadMine)
}

func (s *Service) list(ctx context.Context, p policy.Principal, a policy.Action) ([]data.Task, error) {
	scope, err := s.begin(ctx, p, a)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, data.TaskFilter{Owner: scope.Owner, Limit: PageSize})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for _, t := range tasks {
		if !scope.Permits(t.Owner) {
			return nil, fmt.Errorf("list tasks: store returned task %s outside the caller's scope", t.ID)
		}
	}
	return tasks, nil
}

// Update rewrites title and description of a task the caller owns. Admins get
// no override. A task that is missing or owned by someone else is NOT_FOUND.
func (s *Service) Update(ctx context.Context, p policy.Principal, id string, in Input) (*data.Task, error) {
	scope, err := s.begin(ctx, p, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	t := &data.Task{ID: id, Title: in.Title, Description: in.Description, Owner: scope.Owner}
	if err := s.store.UpdateTask(ctx, t); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "task not found or not owned by you")
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	// The stored record must still belong to the caller.
	if err := policy.Authorize(p, policy.ActionUpdate, t.Owner); err != nil {
		return nil, apperr.Wrap(apperr.CodeNotFound, "task not found or not owned by you", err)
	}
	return t, nil
}

// Delete removes a task the caller owns, or any task for admins.
func (s *Service) Delete(ctx context.Context, p policy.Principal, id string) error {
	scope, err := s.begin(ctx, p, policy.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id, scope.Owner); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return apperr.New(apperr.CodeNotFound, "task not found or not authorized to delete")
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
