package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var userColumns = []string{"id", "email", "password_hash", "created_at"}

// userRepo implements UserRepo on SQLite.
type userRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepo) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    r.now(),
	}
	if u.Email == "" {
		return nil, persistErr("create user", errors.New("email is required"))
	}

	ins := sqlite.Insert(tableUsers).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if _, err := execQ(ctx, r.db, ins); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, persistErr("create user", ErrConflict)
		}
		return nil, persistErr("create user", err)
	}
	return u, nil
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*User, error) {
	return r.one(ctx, "get user by email", entsql.EQ("email", NormalizeEmail(email)))
}

func (r *userRepo) ByID(ctx context.Context, id string) (*User, error) {
	return r.one(ctx, "get user", entsql.EQ("id", id))
}

func (r *userRepo) one(ctx context.Context, op string, where *entsql.Predicate) (*User, error) {
	q := sqlite.Select(userColumns...).
		From(sqlite.Table(tableUsers)).
		Where(where).
		Limit(1)

	var u User
	err := queryRowQ(ctx, r.db, q).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr(op, err)
	}
	return &u, nil
}
