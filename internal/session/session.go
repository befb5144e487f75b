// Package session holds the client-side identity state: the bearer token and
// the user it was issued to. Unlike ad hoc token storage, validity is an
// explicit check — locally against the token's expiry, and via Reconcile
// against the server's own verification.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viveksanandiya/pdf-annotator/pkg/client"
)

const (
	dirName    = "pdf-annotator"
	fileName   = "session.json"
	dirPerms   = 0o700
	filePerms  = 0o600
	DefaultURL = "http://localhost:5000"
)

type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Path returns the full path to the session file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// Load reads the session from disk. A missing file yields an anonymous
// session, not an error.
func Load() (*Session, error) {
	p, err := Path()
	if err != nil {
		return &Session{ServerURL: DefaultURL}, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{ServerURL: DefaultURL}, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.ServerURL == "" {
		s.ServerURL = DefaultURL
	}
	return &s, nil
}

func Save(s *Session) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), dirPerms); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, filePerms)
}

// Clear removes the session file.
func Clear() error {
	p, err := Path()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Valid reports whether the session holds a token that has not expired yet.
// The claims are read without signature verification — the client does not
// hold the signing secret; Reconcile is the authoritative check.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}

	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.After(now)
}

// Reconcile verifies the token against the server and refreshes the stored
// identity. An authentication failure invalidates the session in memory; the
// caller decides whether to persist that.
func (s *Session) Reconcile(c *client.Client) error {
	user, err := c.Verify()
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			s.Token = ""
			s.UserID = ""
			s.Email = ""
		}
		return err
	}

	s.UserID = user.ID
	s.Email = user.Email
	return nil
}
