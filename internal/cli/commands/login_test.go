package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mallhub-dev/mallhub/internal/cli/client"
)

// mockTokenStore is a simple in-memory token store for testing
type mockTokenStore struct {
	tokens map[string]string
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{
		tokens: make(map[string]string),
	}
}

func (m *mockTokenStore) SaveToken(serverURL, token string) error {
	m.tokens[serverURL] = token
	return nil
}

func (m *mockTokenStore) LoadToken(serverURL string) (string, error) {
	token, exists := m.tokens[serverURL]
	if !exists {
		return "", fmt.Errorf("not authenticated. Please run 'mallhub login' first")
	}
	return token, nil
}

func (m *mockTokenStore) DeleteToken(serverURL string) error {
	delete(m.tokens, serverURL)
	return nil
}

// swapTokenStore installs a mock token store for the duration of the test
func swapTokenStore(t *testing.T) *mockTokenStore {
	t.Helper()

	mock := newMockTokenStore()
	original := tokenStore
	tokenStore = mock
	t.Cleanup(func() { tokenStore = original })
	return mock
}

// mockAPIServer serves the login and me endpoints for a single account
func mockAPIServer(t *testing.T, email, password, token string) *httptest.Server {
	t.Helper()

	user := client.User{
		ID:       "user-123",
		Email:    email,
		Username: "tester",
		Role:     "user",
		UserType: "customer",
		Approved: true,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req client.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if req.Email != email || req.Password != password {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message": "Invalid credentials"}`)
				return
			}
			json.NewEncoder(w).Encode(client.AuthResponse{Token: token, User: &user})
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message": "Authentication required"}`)
				return
			}
			json.NewEncoder(w).Encode(user)
		case "/api/auth/logout":
			fmt.Fprint(w, `{"message": "Logged out"}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginCommand_SavesToken(t *testing.T) {
	mock := swapTokenStore(t)
	srv := mockAPIServer(t, "tester@example.com", "password123", "token-abc")

	if err := runLogin(srv.URL, "tester@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	token, err := mock.LoadToken(srv.URL)
	if err != nil {
		t.Fatalf("token not saved: %v", err)
	}
	if token != "token-abc" {
		t.Errorf("token = %q, want token-abc", token)
	}
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	mock := swapTokenStore(t)
	srv := mockAPIServer(t, "tester@example.com", "password123", "token-abc")

	err := runLogin(srv.URL, "tester@example.com", "wrong")
	if err == nil {
		t.Fatal("login succeeded with a wrong password")
	}

	if _, err := mock.LoadToken(srv.URL); err == nil {
		t.Error("token saved despite the failed login")
	}
}

func TestLoginCommand_RequiresEmail(t *testing.T) {
	swapTokenStore(t)
	t.Setenv("MALLHUB_EMAIL", "")
	t.Setenv("MALLHUB_PASSWORD", "")

	if err := runLogin("http://127.0.0.1:1", "", ""); err == nil {
		t.Fatal("expected an error without an email")
	}
}

func TestLoginCommand_EnvCredentials(t *testing.T) {
	mock := swapTokenStore(t)
	srv := mockAPIServer(t, "tester@example.com", "password123", "token-abc")

	t.Setenv("MALLHUB_EMAIL", "tester@example.com")
	t.Setenv("MALLHUB_PASSWORD", "password123")

	if err := runLogin(srv.URL, "", ""); err != nil {
		t.Fatalf("login with env credentials failed: %v", err)
	}
	if _, err := mock.LoadToken(srv.URL); err != nil {
		t.Errorf("token not saved: %v", err)
	}
}

func TestWhoamiCommand(t *testing.T) {
	mock := swapTokenStore(t)
	srv := mockAPIServer(t, "tester@example.com", "password123", "token-abc")

	// Not logged in yet
	if err := runWhoami(srv.URL); err == nil {
		t.Fatal("whoami succeeded without a token")
	}

	mock.SaveToken(srv.URL, "token-abc")
	if err := runWhoami(srv.URL); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}

	// A stale token resolves to anonymous, not a crash
	mock.SaveToken(srv.URL, "token-expired")
	if err := runWhoami(srv.URL); err == nil {
		t.Fatal("whoami succeeded with an invalid token")
	}
}

func TestLogoutCommand_DeletesToken(t *testing.T) {
	mock := swapTokenStore(t)
	srv := mockAPIServer(t, "tester@example.com", "password123", "token-abc")

	mock.SaveToken(srv.URL, "token-abc")
	if err := runLogout(srv.URL); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := mock.LoadToken(srv.URL); err == nil {
		t.Error("token still present after logout")
	}
}

func TestResolveServerURL(t *testing.T) {
	t.Setenv("MALLHUB_SERVER", "")

	if got, err := resolveServerURL("http://flag.example.com"); err != nil || got != "http://flag.example.com" {
		t.Errorf("flag value not preferred: %q, %v", got, err)
	}

	t.Setenv("MALLHUB_SERVER", "http://env.example.com")
	if got, err := resolveServerURL(""); err != nil || got != "http://env.example.com" {
		t.Errorf("env value not used: %q, %v", got, err)
	}

	if got, err := resolveServerURL("http://flag.example.com"); err != nil || got != "http://flag.example.com" {
		t.Errorf("flag must win over env: %q, %v", got, err)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{1999, "19.99"},
		{123456, "1234.56"},
	}
	for _, tc := range tests {
		if got := formatPrice(tc.cents); got != tc.want {
			t.Errorf("formatPrice(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
