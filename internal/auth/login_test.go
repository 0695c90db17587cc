package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseSessionCookie(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"with attributes", "sessionid=abc123;path=/", "abc123", false},
		{"uuid session", "sessionid=53156a18-5a21-49d9-b844-009e1c2be227;path=/", "53156a18-5a21-49d9-b844-009e1c2be227", false},
		{"bare pair", "sessionid=xyz", "xyz", false},
		{"spaces", "  sessionid = xyz ; Path=/; HttpOnly", "xyz", false},
		{"empty", "", "", true},
		{"no equals", "sessionid;path=/", "", true},
		{"empty value", "sessionid=;path=/", "", true},
		{"empty key", "=abc;path=/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSessionCookie(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentialCookie(t *testing.T) {
	assert.Equal(t, "sessionid=abc123; loggedinuser=u1", NewCredential("abc123", "u1").Cookie())
	assert.Equal(t, "sessionid=s; loggedinuser=uid0%40email.com", NewCredential("s", "uid0@email.com").Cookie())
	assert.Equal(t, "sessionid=s; loggedinuser=john%20doe/x%40y", NewCredential("s", "john doe/x@y").Cookie())
}

func TestCredentialInjectHeader(t *testing.T) {
	cred := NewCredential("abc123", "u1")
	req := httptest.NewRequest(http.MethodGet, "http://gw.local/orders", nil)

	require.NoError(t, cred.InjectHeader(context.Background(), req))
	assert.Equal(t, "sessionid=abc123; loggedinuser=u1", req.Header.Get("Cookie"))
	assert.NoError(t, cred.Close())

	var empty *Credential
	assert.Error(t, empty.InjectHeader(context.Background(), req))
}

func TestLoginSuccess(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, LoginPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "u1", r.PostForm.Get("login"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))

		w.Header().Set("Set-Cookie", "sessionid=abc123;path=/")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	a := NewAuthenticator(srv.Client(), zap.New(core))

	cred, err := a.Login(context.Background(), srv.URL, "u1", "secret")
	require.NoError(t, err)

	assert.Equal(t, "sessionid=abc123; loggedinuser=u1", cred.Cookie())
	assert.Equal(t, "abc123", cred.SessionID())
	assert.Equal(t, "u1", cred.UserID())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, logs.FilterMessage("cookie in headers").Len())
	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			assert.NotEqual(t, "secret", field.String, "password must not be logged")
		}
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		cookie  string
		wantMsg string
	}{
		{"unauthorized", http.StatusUnauthorized, "", "HTTP 401"},
		{"server error", http.StatusInternalServerError, "sessionid=abc", "HTTP 500"},
		{"missing cookie", http.StatusOK, "", "missing Set-Cookie"},
		{"malformed cookie", http.StatusOK, "garbage", "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				if tt.cookie != "" {
					w.Header().Set("Set-Cookie", tt.cookie)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			a := NewAuthenticator(srv.Client(), zap.NewNop())
			cred, err := a.Login(context.Background(), srv.URL, "u1", "password")

			require.Error(t, err)
			assert.Nil(t, cred)
			assert.True(t, IsAuthError(err))
			assert.Contains(t, err.Error(), "login failure")
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "login must not be retried")
		})
	}
}

func TestLoginTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	a := NewAuthenticator(nil, nil)
	_, err := a.Login(context.Background(), addr, "u1", "password")

	require.Error(t, err)
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.NotNil(t, authErr.Unwrap())
}

func TestLoginInvalidHost(t *testing.T) {
	a := NewAuthenticator(nil, nil)
	_, err := a.Login(context.Background(), "not a url", "u1", "password")
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}
