// Package validation enforces input shape rules for the API.
// All checks run before any store access.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrInvalidInput marks any validation failure. Wrapped errors carry the
// specific reason in their message.
var ErrInvalidInput = errors.New("invalid input")

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 10
)

// Username checks that a username is alphanumeric and 3-20 characters long.
func Username(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return fmt.Errorf("%w: username must be alphanumeric (3-20 characters)", ErrInvalidInput)
	}
	for _, r := range username {
		if r > unicode.MaxASCII || (!unicode.IsLetter(r) && !unicode.IsDigit(r)) {
			return fmt.Errorf("%w: username must be alphanumeric (3-20 characters)", ErrInvalidInput)
		}
	}
	return nil
}

// Password checks that a password is at least 10 characters long.
func Password(password string) error {
	if len(password) < passwordMinLen {
		return fmt.Errorf("%w: password must be at least 10 characters long", ErrInvalidInput)
	}
	return nil
}

// UserID parses a user ID from its query-string form and checks that it is
// a positive integer.
func UserID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: userID must be a positive integer", ErrInvalidInput)
	}
	return id, nil
}

// SaveProgress checks the fields of a progress save request. userID, level
// and coins are required; enemiesDefeated is optional but must be
// non-negative when present. Pointers distinguish absent fields from zero.
func SaveProgress(userID, level, coins, enemiesDefeated *int64) error {
	if userID == nil || level == nil || coins == nil {
		return fmt.Errorf("%w: missing required fields: userID, level, or coins", ErrInvalidInput)
	}
	if *userID <= 0 {
		return fmt.Errorf("%w: userID must be a positive integer", ErrInvalidInput)
	}
	if *level < 0 {
		return fmt.Errorf("%w: level must be a non-negative integer", ErrInvalidInput)
	}
	if *coins < 0 {
		return fmt.Errorf("%w: coins must be a non-negative integer", ErrInvalidInput)
	}
	if enemiesDefeated != nil && *enemiesDefeated < 0 {
		return fmt.Errorf("%w: enemiesDefeated must be a non-negative integer", ErrInvalidInput)
	}
	return nil
}
