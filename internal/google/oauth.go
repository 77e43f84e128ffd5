package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// DefaultAccount is used when no account name is given.
	DefaultAccount = "default"

	// DefaultRedirectURL is the loopback redirect for installed apps.
	DefaultRedirectURL = "http://localhost"

	cacheSubdir = "inboxagent"
)

// ErrNoToken is returned when no token is stored for an account.
var ErrNoToken = errors.New("no Google OAuth token found")

// Credentials identify the OAuth client.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// CredentialsFromEnv reads GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and
// GOOGLE_REDIRECT_URL.
func CredentialsFromEnv() Credentials {
	return Credentials{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
	}
}

// Validate reports missing client credentials.
func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return errors.New("google client id and secret are required")
	}
	return nil
}

// Auth manages the OAuth flow and the stored tokens.
type Auth struct {
	creds Credentials
	dir   string
	mu    sync.Mutex
}

// NewAuth creates an Auth storing tokens in dir. An empty dir selects the
// user cache directory.
func NewAuth(creds Credentials, dir string) *Auth {
	if dir == "" {
		dir = filepath.Join(userCacheDir(), cacheSubdir)
	}
	return &Auth{creds: creds, dir: dir}
}

// Config returns the OAuth2 configuration.
func (a *Auth) Config() *oauth2.Config {
	redirect := a.creds.RedirectURL
	if redirect == "" {
		redirect = DefaultRedirectURL
	}
	return &oauth2.Config{
		ClientID:     a.creds.ClientID,
		ClientSecret: a.creds.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirect,
		Scopes:       DefaultOAuthScopes,
	}
}

// AuthURL returns the consent URL. Offline access is requested so a refresh
// token is issued.
func (a *Auth) AuthURL(state string) string {
	return a.Config().AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and stores it.
func (a *Auth) Exchange(ctx context.Context, account, code string) error {
	if err := a.creds.Validate(); err != nil {
		return err
	}
	t, err := a.Config().Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return a.saveToken(account, t)
}

// HasToken reports whether a token is stored for account.
func (a *Auth) HasToken(account string) bool {
	path, err := a.tokenPath(account)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// TokenSource returns a token source for account that writes refreshed
// tokens back to disk.
func (a *Auth) TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	t, err := a.loadToken(account)
	if err != nil {
		return nil, err
	}
	base := a.Config().TokenSource(ctx, t)
	return &savingTokenSource{auth: a, account: account, base: base, last: t.AccessToken}, nil
}

// HTTPClient returns an HTTP client authorized for account.
func (a *Auth) HTTPClient(ctx context.Context, account string) (*http.Client, error) {
	ts, err := a.TokenSource(ctx, account)
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, ts)

	// The Gmail batch endpoints misbehave over HTTP/2.
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{ForceAttemptHTTP2: false, Proxy: http.ProxyFromEnvironment}
	}
	return client, nil
}

func (a *Auth) loadToken(account string) (*oauth2.Token, error) {
	path, err := a.tokenPath(account)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w for account %q", ErrNoToken, account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var t oauth2.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", path, err)
	}
	return &t, nil
}

func (a *Auth) saveToken(account string, t *oauth2.Token) error {
	path, err := a.tokenPath(account)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (a *Auth) tokenPath(account string) (string, error) {
	if err := validateAccountName(account); err != nil {
		return "", err
	}
	return filepath.Join(a.dir, getTokenFileName(account)), nil
}

type savingTokenSource struct {
	auth    *Auth
	account string
	base    oauth2.TokenSource

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t.AccessToken != s.last {
		if err := s.auth.saveToken(s.account, t); err != nil {
			return nil, err
		}
		s.last = t.AccessToken
	}
	return t, nil
}

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateAccountName(account string) error {
	if account == "" {
		return errors.New("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, hyphens and underscores are allowed", account)
	}
	return nil
}

func getTokenFileName(account string) string {
	return "google-" + account + ".token"
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	if runtime.GOOS == "windows" {
		return os.TempDir()
	}
	return filepath.Join(os.Getenv("HOME"), ".cache")
}
