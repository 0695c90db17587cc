package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/torosent/orderbench/internal/httpclient"
)

// LoginPath is the customer service endpoint that issues sessions.
const LoginPath = "/customers/rest/api/login"

const maxDrainBytes = 64 * 1024

// AuthError reports a login that did not yield a usable session.
type AuthError struct {
	UserID     string
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.StatusCode != 0 && e.StatusCode != http.StatusOK:
		return fmt.Sprintf("login failure for user %s: HTTP %d", e.UserID, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("login failure for user %s: %v", e.UserID, e.Err)
	default:
		return fmt.Sprintf("login failure for user %s", e.UserID)
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Authenticator performs the single login exchange of a run.
type Authenticator struct {
	client *http.Client
	logger *zap.Logger
}

// NewAuthenticator creates an Authenticator. A nil logger disables logging.
func NewAuthenticator(client *http.Client, logger *zap.Logger) *Authenticator {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{client: client, logger: logger.Named("auth")}
}

// Login posts the user's credentials once and turns the returned session
// cookie into a Credential. It never retries.
func (a *Authenticator) Login(ctx context.Context, host, userID, password string) (*Credential, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	base, err := httpclient.ParseHost(host)
	if err != nil {
		return nil, &AuthError{UserID: userID, Err: err}
	}

	form := url.Values{"login": {userID}, "password": {password}}
	target := httpclient.ResolveURL(base, LoginPath, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthError{UserID: userID, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("login request failed", zap.String("user", userID), zap.Error(err))
		return nil, &AuthError{UserID: userID, Err: err}
	}
	defer httpclient.DrainAndClose(resp.Body, maxDrainBytes)

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("login failure", zap.String("user", userID), zap.Int("status", resp.StatusCode))
		return nil, &AuthError{UserID: userID, StatusCode: resp.StatusCode}
	}

	setCookie := resp.Header.Get("Set-Cookie")
	a.logger.Info("Set-Cookie in headers", zap.String("set_cookie", setCookie))

	sessionID, err := ParseSessionCookie(setCookie)
	if err != nil {
		a.logger.Error("login failure", zap.String("user", userID), zap.Error(err))
		return nil, &AuthError{UserID: userID, StatusCode: resp.StatusCode, Err: err}
	}

	cred := NewCredential(sessionID, userID)
	a.logger.Info("cookie in headers", zap.String("cookie", cred.Cookie()))
	return cred, nil
}

// IsAuthError reports whether err is, or wraps, an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
