//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestSignupLoginMe(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/signup", map[string]string{
		"email":    "  Flow@Example.COM ",
		"password": "abc12345",
		"role":     "agent",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var signup struct {
		Email       string `json:"email"`
		Role        string `json:"role"`
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeJSON(t, resp, &signup)
	assert.Equal(t, "flow@example.com", signup.Email)
	assert.Equal(t, "agent", signup.Role)
	assert.Equal(t, "bearer", signup.TokenType)
	require.NotEmpty(t, signup.AccessToken)

	client.LoginAs(t, "flow@example.com", "abc12345")

	resp, err = client.GET("/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeJSON(t, resp, &me)
	assert.Equal(t, "flow@example.com", me.Email)
	assert.Equal(t, "agent", me.Role)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/signup", map[string]string{
		"email":    "dup@example.com",
		"password": "abc12345",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST("/signup", map[string]string{
		"email":    " DUP@example.com ",
		"password": "abc12345",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSignup_WeakPasswords(t *testing.T) {
	client := newTestClient(t)

	for _, pw := range []string{"short1a", "longenough", "12345678"} {
		resp, err := client.POST("/signup", map[string]string{
			"email":    "weak@example.com",
			"password": pw,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "password %q", pw)
		_ = resp.Body.Close()
	}
}

func TestLogin_InvalidCredentialsUndifferentiated(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/signup", map[string]string{
		"email":    "hide@example.com",
		"password": "abc12345",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	wrongPassword, err := client.POST("/login", map[string]string{
		"email":    "hide@example.com",
		"password": "wrong4567",
	})
	require.NoError(t, err)
	unknownEmail, err := client.POST("/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "abc12345",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	var bodyWrong, bodyUnknown map[string]interface{}
	decodeJSON(t, wrongPassword, &bodyWrong)
	decodeJSON(t, unknownEmail, &bodyUnknown)
	assert.Equal(t, bodyWrong, bodyUnknown, "failure modes must be indistinguishable")
}

func TestSignup_ConcurrentSameEmail(t *testing.T) {
	const workers = 8
	const email = "race@example.com"

	var wg sync.WaitGroup
	statuses := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := newTestClient(t)
			resp, err := client.POST("/signup", map[string]string{
				"email":    email,
				"password": "abc12345",
			})
			if err != nil {
				t.Errorf("signup request: %v", err)
				return
			}
			statuses[i] = resp.StatusCode
			_ = resp.Body.Close()
		}(i)
	}
	wg.Wait()

	created, rejected := 0, 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		}
	}
	assert.Equal(t, 1, created, "exactly one registration wins")
	assert.Equal(t, workers-1, rejected, "losers observe already-registered")

	// The store never contains two records for one normalized email.
	count, err := testDB.Collection("users").CountDocuments(context.Background(), bson.M{"email": email})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMe_RequiresToken(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	client.Token = "not-a-token"
	resp, err = client.GET("/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}
