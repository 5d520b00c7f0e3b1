// Package sessions stores server-side sessions in Postgres. The cookie only
// ever carries a signed session id; everything else lives in this table.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("session not found")

// TTL matches the cookie max age: 30 days.
const TTL = 30 * 24 * time.Hour

// Session associates an authenticated identity with a session id.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Conf struct {
	db *pgxpool.Pool
}

func NewConf(db *pgxpool.Pool) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// Create opens a session for the given identity and returns it.
func (c *Conf) Create(ctx context.Context, userID int64, username, email string) (Session, error) {
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		Email:     email,
		ExpiresAt: time.Now().Add(TTL),
	}
	query := `
		INSERT INTO sessions (id, user_id, username, email, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := c.db.QueryRow(ctx, query, s.ID, s.UserID, s.Username, s.Email, s.ExpiresAt).
		Scan(&s.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return s, nil
}

// Get returns the session if it exists and has not expired. Expired rows read
// as absent; the pruner removes them later.
func (c *Conf) Get(ctx context.Context, id string) (Session, error) {
	query := `
		SELECT id, user_id, username, email, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()
	`
	var s Session
	err := c.db.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.UserID, &s.Username, &s.Email, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	return s, nil
}

// Delete destroys a session. Deleting an already-absent session is not an error.
func (c *Conf) Delete(ctx context.Context, id string) error {
	if _, err := c.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneExpired removes expired rows and reports how many went away.
func (c *Conf) PruneExpired(ctx context.Context) (int64, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
