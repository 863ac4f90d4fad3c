// Package auth stores the opaque credential forwarded to the task API.
// There is no login handshake: the user pastes a token or a session
// cookie value obtained elsewhere.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"

	// EnvToken overrides the stored credential with a bearer token.
	EnvToken = "TASKS_TOKEN"
)

// Kind says how the credential travels with each request.
type Kind string

const (
	KindBearer Kind = "bearer" // Authorization header
	KindCookie Kind = "cookie" // session cookie
)

type TokenInfo struct {
	Token     string    `json:"token"`
	Kind      Kind      `json:"kind"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

func credFilePath() (string, error) {
	dir, err := config.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Get returns the active credential, or nil when none is configured.
func Get() (*TokenInfo, error) {
	// 1) env override
	env := strings.TrimSpace(os.Getenv(EnvToken))
	if env != "" {
		return &TokenInfo{Token: stripBearer(env), Kind: KindBearer, Source: "env"}, nil
	}

	// 2) file
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	var ti TokenInfo
	if err := jsonstore.Read(p, &ti); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("credentials: %w", err)
	}
	if ti.Kind == "" {
		ti.Kind = KindBearer
	}
	if ti.Kind == KindBearer {
		ti.Token = stripBearer(ti.Token)
	}
	return &ti, nil
}

// Set saves a credential with owner-only permissions.
func Set(token string, kind Kind) error {
	token = strings.TrimSpace(token)
	if kind == KindBearer {
		token = stripBearer(token)
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if kind != KindBearer && kind != KindCookie {
		return fmt.Errorf("unknown credential kind %q", kind)
	}
	p, err := credFilePath()
	if err != nil {
		return err
	}
	ti := TokenInfo{
		Token:     token,
		Kind:      kind,
		Source:    "file",
		CreatedAt: time.Now(),
	}
	return jsonstore.Write(p, ti, 0o600)
}

// Delete removes the stored credential. Deleting nothing is not an error.
func Delete() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
