package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mallhub-dev/mallhub/internal/models"
)

func TestRegisterAndLoginCustomer(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "alice@example.com",
		"password":  "super-secret",
		"username":  "alice",
		"user_type": "customer",
	})
	require.Equal(t, http.StatusCreated, status, "register: %s", body)

	var created struct {
		User UserDetail `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "alice@example.com", created.User.Email)
	require.Equal(t, models.RoleUser, created.User.Role)
	require.Equal(t, models.UserTypeCustomer, created.User.UserType)
	require.True(t, created.User.Approved, "customers are approved immediately")

	token := loginAs(t, ts, "alice@example.com", "super-secret")

	status, body = doJSON(t, ts, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	var me UserDetail
	require.NoError(t, json.Unmarshal(body, &me))
	require.Equal(t, "alice@example.com", me.Email)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	_, ts := newTestServer(t)
	registerCustomer(t, ts, "alice@example.com")

	payload, _ := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "customer-secret",
	})
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	require.NotEmpty(t, sessionCookie.Value)
	require.True(t, sessionCookie.HttpOnly)

	// The cookie alone must authenticate a request
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(sessionCookie)

	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, ts := newTestServer(t)
	registerCustomer(t, ts, "alice@example.com")

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, status)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, "Invalid credentials", resp["message"])
}

func TestLogin_UnknownEmailGetsSameMessage(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever-password",
	})
	require.Equal(t, http.StatusUnauthorized, status)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, "Invalid credentials", resp["message"])
}

func TestLogin_UnapprovedSellerIsRejected(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "seller@example.com",
		"password":  "seller-secret",
		"username":  "seller",
		"user_type": "seller",
		"shop_name": "Gadget Corner",
	})
	require.Equal(t, http.StatusCreated, status, "register: %s", body)

	status, body = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "seller@example.com",
		"password": "seller-secret",
	})
	require.Equal(t, http.StatusForbidden, status)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, "Seller account is pending approval", resp["message"])
}

func TestLogin_AdminIsNotGatedOnApproval(t *testing.T) {
	srv, ts := newTestServer(t)
	bootstrapAdmin(t, ts)

	// An operator clearing the flag by hand must not lock the admin out
	require.NoError(t, srv.db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Update("approved", false).Error)

	loginAs(t, ts, "admin@example.com", "admin-secret")
}

func TestRegister_SellerRequiresShopName(t *testing.T) {
	_, ts := newTestServer(t)

	status, _ := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "seller@example.com",
		"password":  "seller-secret",
		"username":  "seller",
		"user_type": "seller",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, ts := newTestServer(t)
	registerCustomer(t, ts, "alice@example.com")

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "alice@example.com",
		"password":  "another-secret",
		"username":  "alice2",
		"user_type": "customer",
	})
	require.Equal(t, http.StatusConflict, status)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, "Email is already registered", resp["message"])
}

func TestRegister_RejectsUnsafeUsername(t *testing.T) {
	_, ts := newTestServer(t)

	for _, username := range []string{"../../etc/passwd", "alice bob", "alice!"} {
		status, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":     "alice@example.com",
			"password":  "super-secret",
			"username":  username,
			"user_type": "customer",
		})
		require.Equal(t, http.StatusBadRequest, status, "username %q: %s", username, body)
	}
}

func TestUpdateProfile_RejectsUnsafeUsername(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerCustomer(t, ts, "alice@example.com")

	status, _ := doJSON(t, ts, http.MethodPut, "/api/auth/profile", token, map[string]string{
		"username": "../../etc/passwd",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestCreateAdmin_RejectsUnsafeUsername(t *testing.T) {
	_, ts := newTestServer(t)

	status, _ := doJSON(t, ts, http.MethodPost, "/api/auth/create-admin", "", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-secret",
		"username": "../../etc/passwd",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestRegister_SellerWithLogoUpload(t *testing.T) {
	srv, ts := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"email":     "seller@example.com",
		"password":  "seller-secret",
		"username":  "seller",
		"user_type": "seller",
		"shop_name": "Gadget Corner",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := http.Post(ts.URL+"/api/auth/register", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var shop models.Shop
	require.NoError(t, srv.db.First(&shop).Error)
	require.NotEmpty(t, shop.LogoPath)

	data, err := os.ReadFile(filepath.Join(srv.config.Server.UploadDir, shop.LogoPath))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestLogout_ClearsCookie(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerCustomer(t, ts, "alice@example.com")

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared, "logout must expire the session cookie")
}

func TestUpdateProfile(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerCustomer(t, ts, "alice@example.com")

	status, body := doJSON(t, ts, http.MethodPut, "/api/auth/profile", token, map[string]string{
		"username": "alice-renamed",
		"password": "new-password-1",
	})
	require.Equal(t, http.StatusOK, status, "update: %s", body)

	var updated UserDetail
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, "alice-renamed", updated.Username)

	// Old password no longer works, new one does
	status, _ = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "customer-secret",
	})
	require.Equal(t, http.StatusUnauthorized, status)

	loginAs(t, ts, "alice@example.com", "new-password-1")
}

func TestCreateAdmin_OneShot(t *testing.T) {
	_, ts := newTestServer(t)

	adminToken := bootstrapAdmin(t, ts)

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/create-admin", "", map[string]string{
		"email":    "second-admin@example.com",
		"password": "admin-secret",
		"username": "admin2",
	})
	require.Equal(t, http.StatusConflict, status)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, "Admin already exists", resp["message"])

	// The first admin can reach admin routes
	status, _ = doJSON(t, ts, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
}
