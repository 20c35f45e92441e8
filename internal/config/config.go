package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Storage settings
	StorePath    string
	StoreBackend string // "bolt" or "sqlite"

	// HTTP settings
	HTTPAddr       string
	FrontendOrigin string

	LogLevel string

	// Optional mail accounts for IMAP ingestion and SMTP sending
	Accounts []AccountConfig
}

// AccountConfig holds configuration for a single email account
type AccountConfig struct {
	Name string `yaml:"name"`

	// IMAP settings
	IMAPHost     string `yaml:"imap_host"`
	IMAPPort     int    `yaml:"imap_port"`
	IMAPUsername string `yaml:"imap_username"`
	IMAPPassword string `yaml:"imap_password"`

	// SMTP settings
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
}

// LoadConfig loads configuration from environment variables. Accounts
// are optional: the store works standalone, ingestion and sending only
// activate when accounts are configured.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		StorePath:      getEnv("STORE_PATH", "/data/mailstore.db"),
		StoreBackend:   getEnv("STORE_BACKEND", "bolt"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8090"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	accounts, err := loadAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	cfg.Accounts = accounts

	return cfg, nil
}

// loadAccounts loads email account configurations from the accounts
// file if ACCOUNTS_FILE is set, otherwise from single-account
// environment variables when present.
func loadAccounts() ([]AccountConfig, error) {
	if path := getEnv("ACCOUNTS_FILE", ""); path != "" {
		return loadAccountsFile(path)
	}

	if getEnv("IMAP_HOST", "") == "" && getEnv("SMTP_HOST", "") == "" {
		return nil, nil
	}

	account := AccountConfig{
		Name:         getEnv("ACCOUNT_NAME", "default"),
		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPUsername: getEnv("IMAP_USERNAME", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
	return []AccountConfig{account}, nil
}

// loadAccountsFile reads account definitions from a YAML file.
func loadAccountsFile(path string) ([]AccountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	var file struct {
		Accounts []AccountConfig `yaml:"accounts"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file: %w", err)
	}

	for i := range file.Accounts {
		if file.Accounts[i].Name == "" {
			return nil, fmt.Errorf("account %d: name is required", i+1)
		}
		if file.Accounts[i].IMAPPort == 0 {
			file.Accounts[i].IMAPPort = 993
		}
		if file.Accounts[i].SMTPPort == 0 {
			file.Accounts[i].SMTPPort = 587
		}
	}
	return file.Accounts, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetAccountByName finds an account by name
func (c *Config) GetAccountByName(name string) (*AccountConfig, error) {
	for i := range c.Accounts {
		if c.Accounts[i].Name == name {
			return &c.Accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account not found: %s", name)
}

// GetDefaultAccount returns the account named "default", or the first
// configured account.
func (c *Config) GetDefaultAccount() *AccountConfig {
	if len(c.Accounts) == 0 {
		return nil
	}
	for i := range c.Accounts {
		if c.Accounts[i].Name == "default" {
			return &c.Accounts[i]
		}
	}
	return &c.Accounts[0]
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("STORE_PATH is required")
	}

	switch c.StoreBackend {
	case "bolt", "sqlite":
	default:
		return fmt.Errorf("STORE_BACKEND must be bolt or sqlite, got %q", c.StoreBackend)
	}

	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}

	// Validate each account
	for i := range c.Accounts {
		acc := &c.Accounts[i]
		if acc.IMAPHost == "" && acc.SMTPHost == "" {
			return fmt.Errorf("account %s: IMAP_HOST or SMTP_HOST is required", acc.Name)
		}
		if acc.IMAPHost != "" && (acc.IMAPPort < 1 || acc.IMAPPort > 65535) {
			return fmt.Errorf("account %s: invalid IMAP_PORT", acc.Name)
		}
		if acc.SMTPHost != "" && (acc.SMTPPort < 1 || acc.SMTPPort > 65535) {
			return fmt.Errorf("account %s: invalid SMTP_PORT", acc.Name)
		}
	}

	return nil
}

// AccountNames returns a list of all account names
func (c *Config) AccountNames() []string {
	names := make([]string, len(c.Accounts))
	for i := range c.Accounts {
		names[i] = c.Accounts[i].Name
	}
	return names
}
