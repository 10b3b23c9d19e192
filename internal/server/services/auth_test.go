package services

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/dmitrijs2005/suggestbox/internal/server/auth"
	"github.com/dmitrijs2005/suggestbox/internal/server/config"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	cfg := &config.Config{
		AdminUsername:           "admin",
		AdminPasswordHash:       hash,
		SessionValidityDuration: time.Hour,
	}
	return NewAuthService(cfg, []byte("test-session-secret"))
}

func TestLogin_SuccessYieldsCheckableToken(t *testing.T) {
	svc := newAuthService(t)

	token, err := svc.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	username, ok := svc.Check(token)
	if !ok {
		t.Fatalf("expected token to be authenticated")
	}
	if username != "admin" {
		t.Fatalf("expected username admin, got %q", username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login("admin", "admin124")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUsernameSameError(t *testing.T) {
	svc := newAuthService(t)

	badUser, err1 := svc.Login("root", "admin123")
	badPass, err2 := svc.Login("admin", "wrong")

	if badUser != "" || badPass != "" {
		t.Fatalf("failed logins must not yield tokens")
	}
	if !errors.Is(err1, common.ErrInvalidCredentials) || !errors.Is(err2, common.ErrInvalidCredentials) {
		t.Fatalf("both failures must yield the same generic error, got %v / %v", err1, err2)
	}
}

func TestLogin_BrokenConfiguredHash(t *testing.T) {
	cfg := &config.Config{
		AdminUsername:           "admin",
		AdminPasswordHash:       "not-a-phc-string",
		SessionValidityDuration: time.Hour,
	}
	svc := NewAuthService(cfg, []byte("secret"))

	_, err := svc.Login("admin", "admin123")
	if !errors.Is(err, common.ErrInternal) {
		t.Fatalf("want ErrInternal, got %v", err)
	}
}

func TestCheck_RejectsEmptyAndGarbage(t *testing.T) {
	svc := newAuthService(t)

	if _, ok := svc.Check(""); ok {
		t.Fatalf("empty token must not authenticate")
	}
	if _, ok := svc.Check("garbage"); ok {
		t.Fatalf("garbage token must not authenticate")
	}
}

func TestCheck_RejectsForeignSecret(t *testing.T) {
	svc := newAuthService(t)

	foreign, err := auth.GenerateToken("admin", []byte("other-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if _, ok := svc.Check(foreign); ok {
		t.Fatalf("token signed with another secret must not authenticate")
	}
}
