package commands

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mallhub-dev/mallhub/internal/cli/client"
)

// mockRegisterServer serves the register endpoint and records what arrived
func mockRegisterServer(t *testing.T) (*httptest.Server, *registerCapture) {
	t.Helper()

	capture := &registerCapture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		capture.contentType = r.Header.Get("Content-Type")
		if strings.HasPrefix(capture.contentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			capture.shopName = r.FormValue("shop_name")
			if f, _, err := r.FormFile("logo"); err == nil {
				defer f.Close()
				capture.logo, _ = io.ReadAll(f)
			}
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"user": {"id": "user-123", "email": "seller@example.com", "user_type": "seller"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv, capture
}

type registerCapture struct {
	contentType string
	shopName    string
	logo        []byte
}

func TestRegisterCommand_SellerWithLogo(t *testing.T) {
	srv, capture := mockRegisterServer(t)

	logoPath := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(logoPath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runRegister(srv.URL, client.RegisterRequest{
		Email:    "seller@example.com",
		Password: "seller-secret",
		Username: "seller",
		UserType: "seller",
		ShopName: "Gadget Corner",
	}, logoPath)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if !strings.HasPrefix(capture.contentType, "multipart/form-data") {
		t.Errorf("content type = %q, want multipart", capture.contentType)
	}
	if capture.shopName != "Gadget Corner" {
		t.Errorf("shop_name = %q, want Gadget Corner", capture.shopName)
	}
	if string(capture.logo) != "png-bytes" {
		t.Errorf("logo bytes = %q, want png-bytes", capture.logo)
	}
}

func TestRegisterCommand_Customer(t *testing.T) {
	srv, capture := mockRegisterServer(t)

	err := runRegister(srv.URL, client.RegisterRequest{
		Email:    "customer@example.com",
		Password: "customer-secret",
		Username: "customer",
		UserType: "customer",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if !strings.HasPrefix(capture.contentType, "application/json") {
		t.Errorf("content type = %q, want JSON", capture.contentType)
	}
}
