package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.StoreBackend != "bolt" {
		t.Errorf("Expected bolt default backend, got %s", cfg.StoreBackend)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Errorf("Expected default addr :8090, got %s", cfg.HTTPAddr)
	}
	if len(cfg.Accounts) != 0 {
		t.Errorf("Expected no accounts by default, got %d", len(cfg.Accounts))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadAccountsFromEnv(t *testing.T) {
	t.Setenv("IMAP_HOST", "imap.example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("IMAP_USERNAME", "user@example.com")
	t.Setenv("ACCOUNT_NAME", "work")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(cfg.Accounts))
	}
	acc := cfg.Accounts[0]
	if acc.Name != "work" || acc.IMAPHost != "imap.example.com" || acc.IMAPPort != 993 {
		t.Errorf("Unexpected account: %+v", acc)
	}
}

func TestLoadAccountsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	content := `accounts:
  - name: personal
    imap_host: imap.example.com
    imap_username: me@example.com
    imap_password: secret
    smtp_host: smtp.example.com
  - name: work
    imap_host: imap.work.example
    imap_port: 143
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACCOUNTS_FILE", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(cfg.Accounts))
	}
	if cfg.Accounts[0].IMAPPort != 993 || cfg.Accounts[0].SMTPPort != 587 {
		t.Errorf("Expected default ports, got %+v", cfg.Accounts[0])
	}
	if cfg.Accounts[1].IMAPPort != 143 {
		t.Errorf("Expected explicit port kept, got %d", cfg.Accounts[1].IMAPPort)
	}

	if _, err := cfg.GetAccountByName("work"); err != nil {
		t.Errorf("Expected to find work account: %v", err)
	}
	if _, err := cfg.GetAccountByName("missing"); err == nil {
		t.Error("Expected error for unknown account")
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg := &Config{StorePath: "/tmp/x.db", StoreBackend: "postgres", HTTPAddr: ":8090"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}
