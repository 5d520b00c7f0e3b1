// Package users persists accounts and verifies credentials.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const uniqueViolation = "23505"

type Conf struct {
	db *pgxpool.Pool
}

func NewConf(db *pgxpool.Pool) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// InsertUser hashes the password and creates the account. The pre-insert
// lookups give precise conflict messages; the unique constraints catch the
// race two concurrent registrations can still run into.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	if _, err := c.LookupByEmail(ctx, nu.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := c.LookupByUsername(ctx, nu.Username); err == nil {
		return User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (full_name, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	user := User{
		FullName:     nu.FullName,
		Email:        nu.Email,
		Username:     nu.Username,
		PasswordHash: string(hash),
	}
	err = c.db.QueryRow(ctx, query, nu.FullName, nu.Email, nu.Username, string(hash)).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_username_key" {
				return User{}, ErrUsernameTaken
			}
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (c *Conf) LookupByEmail(ctx context.Context, email string) (User, error) {
	return c.lookup(ctx, `SELECT id, full_name, email, username, password_hash, created_at
		FROM users WHERE email = $1`, email)
}

func (c *Conf) LookupByUsername(ctx context.Context, username string) (User, error) {
	return c.lookup(ctx, `SELECT id, full_name, email, username, password_hash, created_at
		FROM users WHERE username = $1`, username)
}

func (c *Conf) lookup(ctx context.Context, query string, arg string) (User, error) {
	var user User
	err := c.db.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.FullName, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// Authenticate accepts either email or username. Unknown identifier and wrong
// password collapse into the same error so callers can't enumerate accounts.
func (c *Conf) Authenticate(ctx context.Context, usernameOrEmail, password string) (User, error) {
	user, err := c.LookupByEmail(ctx, usernameOrEmail)
	if errors.Is(err, ErrNotFound) {
		user, err = c.LookupByUsername(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
