package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkorolev/playsave/internal/cryptox"
	"github.com/dkorolev/playsave/internal/models"
	"go.uber.org/zap"
)

// PostgresSessionRepository persists session records in PostgreSQL with the
// payload encrypted at rest. The encryption key is derived from a secret
// separate from the cookie-signing secret.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB

	key []byte
	ttl time.Duration
	log *zap.Logger
}

// NewPostgresSessionRepository creates a session repository that encrypts
// payloads with a key derived from encryptionSecret and expires records
// after ttl.
func NewPostgresSessionRepository(db *sql.DB, encryptionSecret string, ttl time.Duration, log *zap.Logger) *PostgresSessionRepository {
	return &PostgresSessionRepository{
		DB:  db,
		key: cryptox.DeriveKey(encryptionSecret),
		ttl: ttl,
		log: log,
	}
}

// Save creates or refreshes the record for the session as a single atomic
// statement and extends its expiry by the configured TTL.
func (r *PostgresSessionRepository) Save(ctx context.Context, session *models.Session) error {
	plaintext, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("Save: marshal payload: %w", err)
	}

	payload, nonce, err := cryptox.Encrypt(plaintext, r.key)
	if err != nil {
		return fmt.Errorf("Save: encrypt payload: %w", err)
	}

	now := time.Now()
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO sessions (session_id, payload, nonce, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    nonce = EXCLUDED.nonce,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
	`, session.ID, payload, nonce, now.Add(r.ttl), now)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// Load fetches and decrypts the session with the given ID. It returns
// (nil, nil) when the session does not exist or has expired. A record that
// cannot be decrypted is treated as missing and logged, so a rotated
// encryption secret invalidates old sessions instead of failing requests.
func (r *PostgresSessionRepository) Load(ctx context.Context, id string) (*models.Session, error) {
	var payload, nonce []byte
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT payload, nonce FROM sessions WHERE session_id = $1 AND expires_at > $2`,
		id, time.Now(),
	).Scan(&payload, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	plaintext, err := cryptox.Decrypt(payload, nonce, r.key)
	if err != nil {
		r.log.Warn("discarding undecryptable session record", zap.Error(err))
		return nil, nil
	}

	var session models.Session
	if err := json.Unmarshal(plaintext, &session); err != nil {
		r.log.Warn("discarding malformed session payload", zap.Error(err))
		return nil, nil
	}
	session.ID = id
	return &session, nil
}

// Delete removes the session with the given ID.
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
