package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openarchive/depot/pkg/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func writeKeyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api_keys")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadKeyring(t *testing.T) {
	path := writeKeyFile(t, "# operators\nalice:secret-1\nbob:secret-2\n\n")

	keyring, err := LoadKeyring(path, testLogger())
	require.NoError(t, err)
	defer keyring.Close()

	assert.Equal(t, 2, keyring.Len())
	assert.True(t, keyring.Validate("alice", "secret-1"))
	assert.True(t, keyring.Validate("bob", "secret-2"))
	assert.False(t, keyring.Validate("alice", "wrong"))
	assert.False(t, keyring.Validate("carol", "secret-1"))
}

func TestLoadKeyringMalformed(t *testing.T) {
	path := writeKeyFile(t, "alice-no-separator\n")

	_, err := LoadKeyring(path, testLogger())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed credential")
}

func TestLoadKeyringMissingFile(t *testing.T) {
	_, err := LoadKeyring(filepath.Join(t.TempDir(), "nope"), testLogger())
	assert.Error(t, err)
}

func TestKeyringWatchReload(t *testing.T) {
	path := writeKeyFile(t, "alice:secret-1\n")

	keyring, err := LoadKeyring(path, testLogger())
	require.NoError(t, err)
	defer keyring.Close()
	require.NoError(t, keyring.Watch())

	require.NoError(t, os.WriteFile(path, []byte("alice:rotated\n"), 0o600))

	assert.Eventually(t, func() bool {
		return keyring.Validate("alice", "rotated")
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, keyring.Validate("alice", "secret-1"))
}

func TestApiKeyMiddleware(t *testing.T) {
	path := writeKeyFile(t, "alice:secret-1\n")
	keyring, err := LoadKeyring(path, testLogger())
	require.NoError(t, err)
	defer keyring.Close()

	var gotUser string
	handler := ApiKeyMiddleware(keyring, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = observability.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid credential", "ApiKey alice:secret-1", http.StatusOK},
		{"lowercase scheme", "apikey alice:secret-1", http.StatusOK},
		{"wrong key", "ApiKey alice:wrong", http.StatusUnauthorized},
		{"unknown user", "ApiKey carol:secret-1", http.StatusUnauthorized},
		{"bearer scheme", "Bearer sometoken", http.StatusUnauthorized},
		{"no separator", "ApiKey alicesecret", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/locations/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	assert.Equal(t, "alice", gotUser)
}

func TestApiKeyMiddlewareOptional(t *testing.T) {
	path := writeKeyFile(t, "alice:secret-1\n")
	keyring, err := LoadKeyring(path, testLogger())
	require.NoError(t, err)
	defer keyring.Close()

	handler := ApiKeyMiddleware(keyring, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/locations/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad credential still rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/locations/", nil)
		r.Header.Set("Authorization", "ApiKey alice:wrong")
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
