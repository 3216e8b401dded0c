package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

func (s *Store) InsertUser(ctx context.Context, u *data.User) error {
	query := `INSERT INTO users (email, password_hash, role)
			  VALUES (?, ?, ?)`
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, s.d.rebind(query), u.Email, u.PasswordHash, string(u.Role))
	if err != nil {
		if s.d.isUnique(err) {
			return data.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	query := `SELECT email, password_hash, role
			  FROM users
			  WHERE email = ?`
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	var u data.User
	var role string
	err := s.db.QueryRowContext(ctx, s.d.rebind(query), email).Scan(&u.Email, &u.PasswordHash, &role)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, data.ErrNotFound
		default:
			return nil, err
		}
	}
	u.Role = data.Role(role)
	return &u, nil
}
