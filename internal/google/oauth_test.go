package google

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid work", "work", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAccountName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenPath(t *testing.T) {
	dir := t.TempDir()
	a := NewAuth(Credentials{}, dir)

	got, err := a.tokenPath("work")
	if err != nil {
		t.Fatalf("tokenPath() error = %v", err)
	}
	if want := filepath.Join(dir, "google-work.token"); got != want {
		t.Errorf("tokenPath() = %v, want %v", got, want)
	}

	if _, err := a.tokenPath("../escape"); err == nil {
		t.Error("tokenPath() should reject path traversal")
	}
}

func TestHasToken(t *testing.T) {
	a := NewAuth(Credentials{}, t.TempDir())

	if a.HasToken("invalid account") {
		t.Error("HasToken() should return false for invalid account name")
	}
	if a.HasToken("") {
		t.Error("HasToken() should return false for empty account name")
	}
	if a.HasToken(DefaultAccount) {
		t.Error("HasToken() should return false before a token is saved")
	}

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)}
	if err := a.saveToken(DefaultAccount, tok); err != nil {
		t.Fatalf("saveToken() error = %v", err)
	}
	if !a.HasToken(DefaultAccount) {
		t.Error("HasToken() should return true after a token is saved")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := NewAuth(Credentials{ClientID: "id", ClientSecret: "secret"}, dir)

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	if err := a.saveToken("work", tok); err != nil {
		t.Fatalf("saveToken() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "google-work.token"))
	if err != nil {
		t.Fatalf("token file missing: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}

	ts, err := a.TokenSource(context.Background(), "work")
	if err != nil {
		t.Fatalf("TokenSource() error = %v", err)
	}
	got, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if got.AccessToken != "access" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "access")
	}
}

func TestTokenSourceMissing(t *testing.T) {
	a := NewAuth(Credentials{}, t.TempDir())
	_, err := a.TokenSource(context.Background(), DefaultAccount)
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("TokenSource() error = %v, want ErrNoToken", err)
	}
}

func TestAuthURL(t *testing.T) {
	a := NewAuth(Credentials{ClientID: "client-123", ClientSecret: "s"}, t.TempDir())
	u := a.AuthURL("state-xyz")

	for _, want := range []string{"client_id=client-123", "state=state-xyz", "access_type=offline", "gmail.modify"} {
		if !strings.Contains(u, want) {
			t.Errorf("AuthURL() = %v, missing %q", u, want)
		}
	}
}

func TestCredentialsValidate(t *testing.T) {
	if err := (Credentials{}).Validate(); err == nil {
		t.Error("Validate() should fail without client id and secret")
	}
	if err := (Credentials{ClientID: "id", ClientSecret: "secret"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "env-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	c := CredentialsFromEnv()
	if c.ClientID != "env-id" || c.ClientSecret != "env-secret" {
		t.Errorf("CredentialsFromEnv() = %+v", c)
	}
	if got := NewAuth(c, t.TempDir()).Config().RedirectURL; got != DefaultRedirectURL {
		t.Errorf("RedirectURL = %q, want %q", got, DefaultRedirectURL)
	}
}
