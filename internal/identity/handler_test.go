package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deskroute/deskroute/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, repo Repository) chi.Router {
	t.Helper()
	service := newTestService(t, repo)
	handler := NewHandler(service)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(httputil.AuthMiddleware(service))
		handler.RegisterProtectedRoutes(r)
	})
	return r
}

func postJSON(router chi.Router, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignup(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	rec := postJSON(router, "/signup", `{"email": "  Foo@Bar.COM ", "password": "abc12345"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SignupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "foo@bar.com", resp.Email)
	assert.Equal(t, "customer", string(resp.Role))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestSignup_WeakPassword(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	for _, pw := range []string{"short1a", "longenough", "12345678"} {
		rec := postJSON(router, "/signup", `{"email": "foo@bar.com", "password": "`+pw+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "password %q", pw)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	rec := postJSON(router, "/signup", `{"email": "foo@bar.com", "password": "abc12345"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same identity under a differently-written address.
	rec = postJSON(router, "/signup", `{"email": " FOO@bar.com ", "password": "abc12345"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
}

func TestSignup_InvalidBody(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	rec := postJSON(router, "/signup", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(router, "/signup", `{"email": "not-an-email", "password": "abc12345"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(router, "/signup", `{"email": "foo@bar.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	rec := postJSON(router, "/signup", `{"email": "foo@bar.com", "password": "abc12345"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(router, "/login", `{"email": "foo@bar.com", "password": "abc12345"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginEndpoint_NormalizesEmail(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	rec := postJSON(router, "/signup", `{"email": "foo@bar.com", "password": "abc12345"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Padding and case must not trip request validation or the lookup.
	rec = postJSON(router, "/login", `{"email": "  Foo@Bar.COM ", "password": "abc12345"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	rec := postJSON(router, "/signup", `{"email": "foo@bar.com", "password": "abc12345"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := postJSON(router, "/login", `{"email": "foo@bar.com", "password": "wrong4567"}`)
	unknownEmail := postJSON(router, "/login", `{"email": "nobody@bar.com", "password": "abc12345"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// The two failure modes are indistinguishable on the wire.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestMe(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	rec := postJSON(router, "/signup", `{"email": "foo@bar.com", "password": "abc12345", "role": "agent"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var signup SignupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signup.AccessToken)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, req)

	require.Equal(t, http.StatusOK, meRec.Code)

	var me MeResponse
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &me))
	assert.Equal(t, "foo@bar.com", me.Email)
	assert.Equal(t, "agent", string(me.Role))
}

func TestMe_Unauthorized(t *testing.T) {
	router := newTestRouter(t, newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
