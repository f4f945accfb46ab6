package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/apimap/internal/logger"
)

// Key names a value the dashboards keep in browser storage.
type Key string

const (
	KeyUser             Key = "user"
	KeyToken            Key = "token"
	KeyUserRole         Key = "userRole"
	KeyGuestUserDetails Key = "guestUserDetails"
)

// Keys lists every accepted key.
var Keys = []Key{KeyUser, KeyToken, KeyUserRole, KeyGuestUserDetails}

var (
	// ErrUnknownKey is returned for keys outside Keys.
	ErrUnknownKey = errors.New("unknown session key")
	// ErrInvalidID is returned for an empty session id.
	ErrInvalidID = errors.New("invalid session id")
)

// Store is the key-value collaborator holding per-session profile data.
// Clear is the logout operation.
type Store interface {
	Get(ctx context.Context, sid string, key Key) (string, bool, error)
	Set(ctx context.Context, sid string, key Key, value string) error
	Delete(ctx context.Context, sid string, key Key) error
	All(ctx context.Context, sid string) (map[Key]string, error)
	Clear(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
}

// ParseKey validates a raw key name.
func ParseKey(raw string) (Key, error) {
	for _, k := range Keys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, raw)
}

func validate(sid string, key Key) error {
	if sid == "" {
		return ErrInvalidID
	}
	if _, err := ParseKey(string(key)); err != nil {
		return err
	}
	return nil
}

// TokenFunc returns a function reading the auth token of one session.
// Lookup errors are logged and yield an empty token.
func TokenFunc(store Store, sid string, log logger.Logger) func(context.Context) string {
	return func(ctx context.Context) string {
		if store == nil {
			return ""
		}
		token, _, err := store.Get(ctx, sid, KeyToken)
		if err != nil {
			log.Warn("failed to read session token",
				logger.String("session", sid),
				logger.Error(err))
			return ""
		}
		return token
	}
}
