package middleware

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/openarchive/depot/pkg/httputil"
	"github.com/openarchive/depot/pkg/observability"
)

// Keyring holds API keys loaded from a key file. The file has one
// credential per line in the form "username:key"; blank lines and lines
// starting with '#' are ignored. Edits to the file are picked up without
// a restart.
type Keyring struct {
	path   string
	logger *observability.Logger

	mu   sync.RWMutex
	keys map[string]string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// LoadKeyring reads the key file at path and returns a keyring over it
func LoadKeyring(path string, logger *observability.Logger) (*Keyring, error) {
	k := &Keyring{
		path:   path,
		logger: logger,
		keys:   make(map[string]string),
		done:   make(chan struct{}),
	}
	if err := k.reload(); err != nil {
		return nil, err
	}
	return k, nil
}

// Watch reloads the keyring whenever the key file changes. Editors often
// replace the file rather than write in place, so the parent directory is
// watched instead of the file itself.
func (k *Keyring) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create key file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(k.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch key file directory: %w", err)
	}
	k.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != k.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := k.reload(); err != nil {
					k.logger.WithError(err).Error("failed to reload API key file")
					continue
				}
				k.logger.WithField("path", k.path).Info("API key file reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				k.logger.WithError(err).Warn("key file watcher error")
			case <-k.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the file watcher
func (k *Keyring) Close() error {
	close(k.done)
	if k.watcher != nil {
		return k.watcher.Close()
	}
	return nil
}

// Validate reports whether the username/key pair is present in the keyring
func (k *Keyring) Validate(username, key string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	want, ok := k.keys[username]
	return ok && want == key
}

// Len returns the number of loaded credentials
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

func (k *Keyring) reload() error {
	f, err := os.Open(k.path)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	defer f.Close()

	keys := make(map[string]string)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		username, key, ok := strings.Cut(text, ":")
		if !ok || username == "" || key == "" {
			return fmt.Errorf("malformed credential on line %d of %s", line, k.path)
		}
		keys[username] = key
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read key file: %w", err)
	}

	k.mu.Lock()
	k.keys = keys
	k.mu.Unlock()
	return nil
}

// ApiKeyMiddleware authenticates requests carrying an
// "Authorization: ApiKey <username>:<key>" header against the keyring.
// When optional is true, requests without an Authorization header pass
// through unauthenticated; malformed or invalid credentials are still
// rejected.
func ApiKeyMiddleware(keyring *Keyring, optional bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if optional {
					next.ServeHTTP(w, r)
					return
				}
				httputil.WriteUnauthorized(w, "missing authorization header")
				return
			}

			scheme, credential, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "ApiKey") {
				httputil.WriteUnauthorized(w, "invalid authorization header format")
				return
			}
			username, key, ok := strings.Cut(credential, ":")
			if !ok {
				httputil.WriteUnauthorized(w, "invalid authorization header format")
				return
			}

			if !keyring.Validate(username, key) {
				httputil.WriteUnauthorized(w, "invalid API key")
				return
			}

			ctx := observability.WithUserID(r.Context(), username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
