package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"time"
)

// Client is an HTTP client for the Mallhub API. Requests carry credentials
// via a cookie jar (browser-style sessions) and, when a token is set, a
// bearer header. JSON bodies get a JSON content type; multipart bodies leave
// the content type to the multipart writer so the boundary is correct.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client for the given base URL
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetToken sets the bearer token attached to subsequent requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response with its decoded server message
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// errorBody is the error shape the server responds with
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// User represents a mall account in API responses
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	UserType string `json:"user_type"`
	Approved bool   `json:"approved"`
}

// AuthResponse represents the login response
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body.
// Shop fields are only meaningful for seller registrations.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Username        string `json:"username"`
	UserType        string `json:"user_type"`
	ShopName        string `json:"shop_name,omitempty"`
	ShopDescription string `json:"shop_description,omitempty"`
}

// ProfileUpdate represents a profile change request
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends the request and decodes the response into out (when non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = string(data)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// Login authenticates the user and returns the session user and token
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account. When logoPath is non-empty the request is
// sent as multipart form data carrying the shop logo file.
func (c *Client) Register(ctx context.Context, r RegisterRequest, logoPath string) (*User, error) {
	if logoPath == "" {
		var resp struct {
			User *User `json:"user"`
		}
		if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", r, &resp); err != nil {
			return nil, err
		}
		return resp.User, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"email":            r.Email,
		"password":         r.Password,
		"username":         r.Username,
		"user_type":        r.UserType,
		"shop_name":        r.ShopName,
		"shop_description": r.ShopDescription,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	f, err := os.Open(logoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open logo file: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile("logo", filepath.Base(logoPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to copy logo file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/register", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// CreateAdmin bootstraps the first admin account. The server refuses the
// request once an admin exists.
func (c *Client) CreateAdmin(ctx context.Context, email, password, username string) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password, "username": username}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/create-admin", body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Me returns the currently authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout terminates the server-side session. The response body is not
// inspected.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// UpdateProfile applies profile changes and returns the updated user
func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPut, "/api/auth/profile", u, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
