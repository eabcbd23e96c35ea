package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "test", "value": 42}`)
	r := httptest.NewRequest(http.MethodPost, "/", body)

	var dest struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	err := ParseJSON(r, &dest)

	require.NoError(t, err)
	assert.Equal(t, "test", dest.Name)
	assert.Equal(t, 42, dest.Value)
}

func TestParseJSONInvalid(t *testing.T) {
	body := bytes.NewBufferString(`{"name": `)
	r := httptest.NewRequest(http.MethodPost, "/", body)

	var dest map[string]interface{}
	err := ParseJSON(r, &dest)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestParseJSONOrError(t *testing.T) {
	body := bytes.NewBufferString(`not json`)
	r := httptest.NewRequest(http.MethodPost, "/", body)
	w := httptest.NewRecorder()

	var dest map[string]interface{}
	ok := ParseJSONOrError(w, r, &dest)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParsePathString(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/locations/", nil)
	r = mux.SetURLVars(r, map[string]string{"resource": "locations"})

	val, err := ParsePathString(r, "resource")

	require.NoError(t, err)
	assert.Equal(t, "locations", val)
}

func TestParsePathStringMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := ParsePathString(r, "resource")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing path parameter")
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3", nil)

	val, err := ParseQueryInt(r, "page", 1)

	require.NoError(t, err)
	assert.Equal(t, 3, val)
}

func TestParseQueryIntDefault(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	val, err := ParseQueryInt(r, "page", 1)

	require.NoError(t, err)
	assert.Equal(t, 1, val)
}

func TestParseQueryIntInvalid(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=abc", nil)

	_, err := ParseQueryInt(r, "page", 1)

	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mw("first"), mw("second"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates ID when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("honors client-supplied ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "client-id-1")
		handler.ServeHTTP(w, r)
		assert.Equal(t, "client-id-1", w.Header().Get("X-Request-ID"))
	})
}
