package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	svc, _ := newTestService()
	mux := http.NewServeMux()
	NewHandler(svc).Register(mux, "/user", nil)
	return mux
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	mux.ServeHTTP(rec, req)
	return rec
}

func TestUserResponsesNeverContainPassword(t *testing.T) {
	mux := newTestMux(t)

	rec := do(mux, http.MethodPost, "/user", `{"email":"luke@rebellion.org","password":"usetheforce"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "usetheforce")

	var created Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "luke@rebellion.org", created.Email)

	for _, path := range []string{"/user", "/user/1"} {
		rec = do(mux, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	}
}

func TestUserDuplicateEmailIsConflict(t *testing.T) {
	mux := newTestMux(t)

	rec := do(mux, http.MethodPost, "/user", `{"email":"leia@rebellion.org","password":"alderaan"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(mux, http.MethodPost, "/user", `{"email":"leia@rebellion.org","password":"hoth"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserLifecycle(t *testing.T) {
	mux := newTestMux(t)

	rec := do(mux, http.MethodPost, "/user", `{"email":"han@falcon.io","password":"kessel"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(mux, http.MethodPut, "/user/1", `{"email":"solo@falcon.io","password":"parsecs"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"id":1,"email":"solo@falcon.io"}`, rec.Body.String())

	rec = do(mux, http.MethodPut, "/user/1", `{"email":"solo@falcon.io"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(mux, http.MethodPut, "/user/99", `{"email":"x@y.z","password":"p"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(mux, http.MethodDelete, "/user/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(mux, http.MethodGet, "/user/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(mux, http.MethodDelete, "/user/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
