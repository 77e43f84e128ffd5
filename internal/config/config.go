package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/inboxagent/internal/campaign"
	"github.com/teemow/inboxagent/internal/google"
	"github.com/teemow/inboxagent/internal/llm"
	"github.com/teemow/inboxagent/internal/usage"
)

// EnvConfigFile names the environment variable holding the config file path.
const EnvConfigFile = "INBOXAGENT_CONFIG"

// Defaults.
const (
	DefaultDataDir     = "data"
	DefaultVectorDB    = "data/vectors.db"
	DefaultNamespace   = "inbox"
	DefaultQuery       = "in:inbox"
	DefaultSchedule    = "*/15 * * * *"
	DefaultMetricsAddr = ":9090"
	DefaultTimeout     = 2 * time.Minute
)

// Config is the complete agent configuration.
type Config struct {
	OpenAI   OpenAIConfig       `yaml:"openai"`
	Google   google.Credentials `yaml:"google"`
	Gmail    GmailConfig        `yaml:"gmail"`
	Search   SearchConfig       `yaml:"search"`
	Storage  StorageConfig      `yaml:"storage"`
	Campaign CampaignConfig     `yaml:"campaign"`
	// Models replaces the variants of the tiers it names.
	Models []ModelConfig `yaml:"models"`

	// QAInterval spaces the per-question model calls.
	QAInterval time.Duration `yaml:"qa_interval"`

	// Schedule is the cron spec used by watch mode.
	Schedule    string `yaml:"schedule"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// OpenAIConfig configures the model endpoint.
type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// GmailConfig selects the mailbox.
type GmailConfig struct {
	Account    string `yaml:"account"`
	Query      string `yaml:"query"`
	MaxResults int64  `yaml:"max_results"`
	// TokenDir holds the OAuth tokens; empty means the user cache dir.
	TokenDir string `yaml:"token_dir"`
}

// SearchConfig configures the Custom Search engine used by the lookup agent.
type SearchConfig struct {
	APIKey string `yaml:"api_key"`
	CX     string `yaml:"cx"`
}

// Enabled reports whether web lookups can run.
func (s SearchConfig) Enabled() bool {
	return s.APIKey != "" && s.CX != ""
}

// StorageConfig locates the result bundles and the vector store.
type StorageConfig struct {
	DataDir   string `yaml:"data_dir"`
	VectorDB  string `yaml:"vector_db"`
	Namespace string `yaml:"namespace"`
}

// CampaignConfig identifies who runs the campaign.
type CampaignConfig struct {
	OwnerName   string   `yaml:"owner_name"`
	Outlet      string   `yaml:"outlet"`
	DefaultTown string   `yaml:"default_town"`
	Domains     []string `yaml:"domains"`
}

// Sender returns the letter signer.
func (c CampaignConfig) Sender() campaign.Sender {
	return campaign.Sender{
		OwnerName:   c.OwnerName,
		Outlet:      c.Outlet,
		DefaultTown: c.DefaultTown,
	}
}

// ModelConfig is one model variant of a tier.
type ModelConfig struct {
	Tier       string  `yaml:"tier"`
	Name       string  `yaml:"name"`
	MaxTokens  int     `yaml:"max_tokens"`
	InputRate  float64 `yaml:"input_rate"`
	OutputRate float64 `yaml:"output_rate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OpenAI: OpenAIConfig{Timeout: DefaultTimeout},
		Google: google.Credentials{RedirectURL: google.DefaultRedirectURL},
		Gmail: GmailConfig{
			Account: google.DefaultAccount,
			Query:   DefaultQuery,
		},
		Storage: StorageConfig{
			DataDir:   DefaultDataDir,
			VectorDB:  DefaultVectorDB,
			Namespace: DefaultNamespace,
		},
		Campaign: CampaignConfig{
			OwnerName:   campaign.DefaultSender.OwnerName,
			Outlet:      campaign.DefaultSender.Outlet,
			DefaultTown: campaign.DefaultSender.DefaultTown,
			Domains:     []string{"hamletmail.com", "hamlethub.com"},
		},
		QAInterval:  500 * time.Millisecond,
		Schedule:    DefaultSchedule,
		MetricsAddr: DefaultMetricsAddr,
	}
}

// Load reads the file at path on top of the defaults and applies the
// environment overrides. An empty path falls back to INBOXAGENT_CONFIG; if
// that is unset too, only defaults and environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Parse decodes YAML into cfg. Fields absent from data keep their values.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func (c *Config) applyEnv() {
	c.OpenAI.APIKey = getEnvOrDefault("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", c.OpenAI.BaseURL)

	env := google.CredentialsFromEnv()
	c.Google.ClientID = orDefault(env.ClientID, c.Google.ClientID)
	c.Google.ClientSecret = orDefault(env.ClientSecret, c.Google.ClientSecret)
	c.Google.RedirectURL = orDefault(env.RedirectURL, c.Google.RedirectURL)

	c.Gmail.Account = getEnvOrDefault("GMAIL_ACCOUNT", c.Gmail.Account)
	c.Gmail.Query = getEnvOrDefault("GMAIL_QUERY", c.Gmail.Query)
	c.Gmail.TokenDir = getEnvOrDefault("INBOXAGENT_TOKEN_DIR", c.Gmail.TokenDir)

	c.Search.APIKey = getEnvOrDefault("GOOGLE_SEARCH_API_KEY", c.Search.APIKey)
	c.Search.CX = getEnvOrDefault("GOOGLE_SEARCH_CX", c.Search.CX)

	c.Storage.DataDir = getEnvOrDefault("INBOXAGENT_DATA_DIR", c.Storage.DataDir)
	c.Storage.VectorDB = getEnvOrDefault("INBOXAGENT_VECTOR_DB", c.Storage.VectorDB)
	c.Storage.Namespace = getEnvOrDefault("INBOXAGENT_NAMESPACE", c.Storage.Namespace)

	c.Campaign.OwnerName = getEnvOrDefault("CAMPAIGN_OWNER", c.Campaign.OwnerName)
	c.Campaign.Outlet = getEnvOrDefault("CAMPAIGN_OUTLET", c.Campaign.Outlet)
	c.Campaign.DefaultTown = getEnvOrDefault("CAMPAIGN_TOWN", c.Campaign.DefaultTown)

	c.Schedule = getEnvOrDefault("INBOXAGENT_SCHEDULE", c.Schedule)
	c.MetricsAddr = getEnvOrDefault("INBOXAGENT_METRICS_ADDR", c.MetricsAddr)
}

// Validate checks the settings needed to process the inbox.
func (c *Config) Validate() error {
	var errs []error
	if c.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("openai api key is required (OPENAI_API_KEY)"))
	}
	if err := c.Google.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Storage.DataDir == "" {
		errs = append(errs, errors.New("data dir is required"))
	}
	if c.Storage.VectorDB == "" {
		errs = append(errs, errors.New("vector db path is required"))
	}
	if c.Campaign.OwnerName == "" {
		errs = append(errs, errors.New("campaign owner name is required"))
	}
	if c.QAInterval < 0 {
		errs = append(errs, fmt.Errorf("qa interval must not be negative, got %s", c.QAInterval))
	}
	if (c.Search.APIKey == "") != (c.Search.CX == "") {
		errs = append(errs, errors.New("search api key and cx must be set together"))
	}
	for i, m := range c.Models {
		if err := m.validate(); err != nil {
			errs = append(errs, fmt.Errorf("models[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (m ModelConfig) validate() error {
	switch llm.Tier(m.Tier) {
	case llm.TierGPT4, llm.TierGPT35, llm.TierEmbedding:
	default:
		return fmt.Errorf("unknown tier %q", m.Tier)
	}
	if m.Name == "" {
		return errors.New("name is required")
	}
	if m.MaxTokens <= 0 {
		return errors.New("max_tokens must be positive")
	}
	if m.InputRate < 0 || m.OutputRate < 0 {
		return errors.New("rates must not be negative")
	}
	return nil
}

// Catalog returns the default model catalog with the configured tiers
// replaced.
func (c *Config) Catalog() llm.Catalog {
	catalog := llm.DefaultCatalog()
	replaced := map[llm.Tier]bool{}
	for _, m := range c.Models {
		tier := llm.Tier(m.Tier)
		if !replaced[tier] {
			catalog[tier] = nil
			replaced[tier] = true
		}
		catalog[tier] = append(catalog[tier], llm.Variant{
			Name:      m.Name,
			MaxTokens: m.MaxTokens,
			Rate:      usage.Rate{Input: m.InputRate, Output: m.OutputRate},
			Embedding: tier == llm.TierEmbedding,
		})
	}
	return catalog
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	return orDefault(os.Getenv(key), defaultValue)
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}
