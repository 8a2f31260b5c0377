// Package models defines the core data structures for users, game progress
// and server-side sessions.
package models

// User represents a registered player account.
type User struct {
	// ID is the server-assigned unique identifier for the user.
	ID int64
	// Username is the login name chosen by the user.
	Username string
	// Password is the bcrypt digest of the user's password.
	// It is never the plaintext and must never be logged.
	Password string
}

// Progress holds the saved game state for a single user.
// There is at most one progress row per user.
type Progress struct {
	// UserID references the owning user.
	UserID int64 `json:"userID"`
	// Level is the last saved level.
	Level int64 `json:"level"`
	// Coins is the coin balance.
	Coins int64 `json:"coins"`
	// EnemiesDefeated counts defeated enemies. It defaults to zero and is
	// only overwritten when the client supplies it on save.
	EnemiesDefeated int64 `json:"enemies_defeated"`
}

// Session is a server-side session record correlated to a client by a
// signed cookie carrying its ID.
type Session struct {
	// ID is an opaque random identifier.
	ID string `json:"-"`
	// UserID identifies the authenticated user, or 0 for an anonymous session.
	UserID int64 `json:"user_id"`
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}
