package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Credential is the session obtained at login. It is created once per run
// and never modified afterwards.
type Credential struct {
	sessionID string
	userID    string
}

var _ Provider = (*Credential)(nil)

// NewCredential creates a credential for the given session token and user.
func NewCredential(sessionID, userID string) *Credential {
	return &Credential{sessionID: sessionID, userID: userID}
}

// SessionID returns the session token issued by the login endpoint.
func (c *Credential) SessionID() string { return c.sessionID }

// UserID returns the user the session belongs to.
func (c *Credential) UserID() string { return c.userID }

// Cookie renders the Cookie header value expected by the order service.
func (c *Credential) Cookie() string {
	return fmt.Sprintf("sessionid=%s; loggedinuser=%s", c.sessionID, escapeUserID(c.userID))
}

// escapeUserID percent-encodes the user id for the cookie. Spaces become
// %20 and slashes are kept, as the order service expects.
func escapeUserID(userID string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(userID), "+", "%20")
	return strings.ReplaceAll(escaped, "%2F", "/")
}

// InjectHeader sets the session cookie on req.
func (c *Credential) InjectHeader(_ context.Context, req *http.Request) error {
	if c == nil || c.sessionID == "" {
		return errors.New("credential has no session")
	}
	req.Header.Set("Cookie", c.Cookie())
	return nil
}

// Close is a no-op; sessions are discarded at process exit.
func (c *Credential) Close() error {
	return nil
}

// ParseSessionCookie extracts the value of the first key=value pair of a
// Set-Cookie header such as "sessionid=53156a18;path=/".
func ParseSessionCookie(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing Set-Cookie header")
	}
	first, _, _ := strings.Cut(header, ";")
	key, value, found := strings.Cut(strings.TrimSpace(first), "=")
	if !found || strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("malformed Set-Cookie header %q", header)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty session value in Set-Cookie header %q", header)
	}
	return value, nil
}
