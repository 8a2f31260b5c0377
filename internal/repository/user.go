// Package repository provides persistence implementations for user accounts,
// game progress and sessions using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkorolev/playsave/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrDuplicateUser indicates a username unique-constraint violation.
	ErrDuplicateUser = errors.New("username already exists")
	// ErrNotFound indicates that the requested row does not exist.
	ErrNotFound = errors.New("not found")
)

// uniqueViolation is the PostgreSQL error code for unique-constraint violations.
const uniqueViolation = "23505"

// PostgresUserRepository implements user and progress persistence against a
// PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL
// instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// InsertUser creates a new user row with the given username and password
// digest. It returns ErrDuplicateUser if the username is already taken.
func (r *PostgresUserRepository) InsertUser(ctx context.Context, username, digest string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2)`,
		username, digest,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateUser
	}
	if err != nil {
		return fmt.Errorf("InsertUser: %w", err)
	}
	return nil
}

// FindUserByUsername fetches a user by username. It returns (nil, nil) when
// no such user exists.
func (r *PostgresUserRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT user_id, username, password FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindUserByUsername: %w", err)
	}
	return &u, nil
}

// UpsertProgress creates or overwrites the progress row for userID as a
// single atomic statement. When enemiesDefeated is nil the stored
// enemies_defeated value is preserved (zero on first insert).
func (r *PostgresUserRepository) UpsertProgress(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO progress (user_id, level, coins, enemies_defeated)
		VALUES ($1, $2, $3, COALESCE($4, 0))
		ON CONFLICT (user_id) DO UPDATE
		SET level = EXCLUDED.level,
		    coins = EXCLUDED.coins,
		    enemies_defeated = COALESCE($4, progress.enemies_defeated)
	`, userID, level, coins, enemiesDefeated)
	if err != nil {
		return fmt.Errorf("UpsertProgress: %w", err)
	}
	return nil
}

// GetProgress fetches the progress row for userID. It returns ErrNotFound
// when no row exists.
func (r *PostgresUserRepository) GetProgress(ctx context.Context, userID int64) (*models.Progress, error) {
	p := models.Progress{UserID: userID}
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT level, coins, enemies_defeated FROM progress WHERE user_id = $1`,
		userID,
	).Scan(&p.Level, &p.Coins, &p.EnemiesDefeated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetProgress: %w", err)
	}
	return &p, nil
}
