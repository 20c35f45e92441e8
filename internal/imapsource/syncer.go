package imapsource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sebenza/mailstore/internal/config"
	"github.com/sebenza/mailstore/internal/store"
)

// Syncer pulls messages from configured IMAP accounts into the store.
type Syncer struct {
	config  *config.Config
	clients map[string]*Client
	store   *store.Store
	logger  *logrus.Logger
}

// NewSyncer builds a syncer for every account that has an IMAP host
// configured.
func NewSyncer(cfg *config.Config, st *store.Store, logger *logrus.Logger) *Syncer {
	clients := make(map[string]*Client)
	for i := range cfg.Accounts {
		acc := &cfg.Accounts[i]
		if acc.IMAPHost == "" {
			continue
		}
		clients[acc.Name] = NewClient(acc, logger)
	}
	return &Syncer{
		config:  cfg,
		clients: clients,
		store:   st,
		logger:  logger,
	}
}

// HasAccounts reports whether any account is available for syncing.
func (s *Syncer) HasAccounts() bool {
	return len(s.clients) > 0
}

// SyncAccount imports messages for one account. An empty accountName
// selects the default account. With an empty folderName every remote
// folder is synced; per-folder failures are logged and do not abort
// the rest.
func (s *Syncer) SyncAccount(accountName, folderName string) (store.ImportResult, error) {
	client, err := s.client(accountName)
	if err != nil {
		return store.ImportResult{}, err
	}

	if folderName != "" {
		return s.syncFolder(client, folderName)
	}

	folders, err := client.ListFolders()
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("failed to list folders: %w", err)
	}

	var total store.ImportResult
	for _, folder := range folders {
		result, err := s.syncFolder(client, folder)
		if err != nil {
			s.logger.WithError(err).WithField("folder", folder).Warn("Failed to sync folder")
			continue
		}
		total.Imported += result.Imported
		total.Failed += result.Failed
	}
	return total, nil
}

// client resolves an account name to its IMAP client. An empty name
// falls back to the default account, so a single-account deployment
// can sync without naming it.
func (s *Syncer) client(accountName string) (*Client, error) {
	if accountName == "" {
		if acc := s.config.GetDefaultAccount(); acc != nil {
			accountName = acc.Name
		}
	}
	client, ok := s.clients[accountName]
	if !ok {
		return nil, fmt.Errorf("account not found: %s", accountName)
	}
	return client, nil
}

// syncFolder fetches one remote folder and bulk-imports its messages.
func (s *Syncer) syncFolder(client *Client, folderName string) (store.ImportResult, error) {
	raw, err := client.FetchRaw(folderName)
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("failed to fetch folder %s: %w", folderName, err)
	}

	result := s.store.ImportEmails(raw)
	s.logger.WithFields(logrus.Fields{
		"account":  client.config.Name,
		"folder":   folderName,
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("Synced folder")
	return result, nil
}

// AccountNames returns the names of all syncable accounts.
func (s *Syncer) AccountNames() []string {
	names := make([]string, 0, len(s.clients))
	for name := range s.clients {
		names = append(names, name)
	}
	return names
}

// Close closes all IMAP connections.
func (s *Syncer) Close() error {
	for _, client := range s.clients {
		client.Close() //nolint:errcheck
	}
	return nil
}
