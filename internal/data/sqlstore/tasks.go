package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

func (s *Store) InsertTask(ctx context.Context, t *data.Task) error {
	query := `INSERT INTO tasks (id, title, description, owner)
			  VALUES (?, ?, ?, ?)`
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, s.d.rebind(query), id, t.Title, t.Description, t.Owner); err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (s *Store) ListTasks(ctx context.Context, f data.TaskFilter) ([]data.Task, error) {
	query := `SELECT id, title, description, owner FROM tasks`
	var args []any
	if f.Owner != "" {
		query += ` WHERE owner = ?`
		args = append(args, f.Owner)
	}
	query += ` ORDER BY seq`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.d.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []data.Task{}
	for rows.Next() {
		var t data.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Owner); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *data.Task) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return data.ErrNotFound
	}
	query := `UPDATE tasks SET title = ?, description = ?
			  WHERE id = ? AND owner = ?
			  RETURNING id, title, description, owner`
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, s.d.rebind(query), t.Title, t.Description, id.String(), t.Owner)
	err = row.Scan(&t.ID, &t.Title, &t.Description, &t.Owner)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return data.ErrNotFound
		default:
			return err
		}
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id, owner string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return data.ErrNotFound
	}
	query := `DELETE FROM tasks WHERE id = ?`
	args := []any{parsed.String()}
	if owner != "" {
		query += ` AND owner = ?`
		args = append(args, owner)
	}
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.d.rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return data.ErrNotFound
	}
	return nil
}
