// Package imapsource pulls messages from IMAP accounts and hands them
// to the store's import pipeline as loosely shaped records, so every
// fetched message goes through the same normalization and failure
// isolation as any other external payload.
package imapsource

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"
	"github.com/sirupsen/logrus"

	"github.com/sebenza/mailstore/internal/config"
	"github.com/sebenza/mailstore/pkg/types"
)

// fetchWindow is how many recent messages a folder sync pulls when no
// explicit range is given.
const fetchWindow = 100

// Client wraps an IMAP connection to one account.
type Client struct {
	config    *config.AccountConfig
	client    *client.Client
	logger    *logrus.Logger
	connected bool
}

// NewClient creates an IMAP client (does not connect immediately).
func NewClient(cfg *config.AccountConfig, logger *logrus.Logger) *Client {
	return &Client{
		config: cfg,
		logger: logger,
	}
}

// Connect establishes a connection to the IMAP server.
func (c *Client) Connect() error {
	if c.connected && c.client != nil {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", c.config.IMAPHost, c.config.IMAPPort)
	cl, err := client.DialTLS(addr, &tls.Config{
		ServerName: c.config.IMAPHost,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	c.client = cl

	if err := c.client.Login(c.config.IMAPUsername, c.config.IMAPPassword); err != nil {
		c.logger.WithError(err).Error("Failed to login to IMAP server")
		c.client.Logout() //nolint:errcheck
		c.client = nil
		return fmt.Errorf("failed to login to IMAP server: %w", err)
	}

	c.connected = true
	c.logger.WithField("account", c.config.Name).Info("Connected to IMAP server")
	return nil
}

// Close closes the IMAP connection.
func (c *Client) Close() error {
	if c.client != nil {
		if err := c.client.Logout(); err != nil {
			return err
		}
		c.client = nil
		c.connected = false
	}
	return nil
}

// ListFolders lists all remote mailbox names.
func (c *Client) ListFolders() ([]string, error) {
	if err := c.Connect(); err != nil {
		return nil, err
	}

	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.client.List("", "*", mailboxes)
	}()

	var names []string
	for m := range mailboxes {
		names = append(names, m.Name)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return names, nil
}

// FetchRaw fetches recent messages from a remote folder as raw records
// for the import pipeline.
func (c *Client) FetchRaw(folderName string) ([]any, error) {
	if err := c.Connect(); err != nil {
		return nil, err
	}

	mbox, err := c.client.Select(folderName, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select folder: %w", err)
	}
	if mbox.Messages == 0 {
		return []any{}, nil
	}

	seqSet := new(imap.SeqSet)
	start := uint32(1)
	if mbox.Messages > fetchWindow {
		start = mbox.Messages - fetchWindow + 1
	}
	seqSet.AddRange(start, mbox.Messages)

	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchInternalDate, imap.FetchUid, imap.FetchRFC822}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.client.Fetch(seqSet, items, messages)
	}()

	var records []any
	for msg := range messages {
		records = append(records, c.rawRecord(msg, folderName))
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return records, nil
}

// rawRecord converts an IMAP message into the loose map shape the
// normalizer accepts.
func (c *Client) rawRecord(msg *imap.Message, folderName string) map[string]any {
	rec := map[string]any{
		"folder":    StoreFolderID(folderName),
		"isRead":    hasFlag(msg.Flags, imap.SeenFlag),
		"isStarred": hasFlag(msg.Flags, imap.FlaggedFlag),
	}

	if msg.Envelope != nil {
		rec["id"] = msg.Envelope.MessageId
		rec["subject"] = msg.Envelope.Subject
		rec["date"] = msg.Envelope.Date
		if len(msg.Envelope.From) > 0 {
			addr := msg.Envelope.From[0]
			rec["from"] = map[string]any{
				"name":  addr.PersonalName,
				"email": addr.Address(),
			}
		}
		rec["to"] = addressList(msg.Envelope.To)
		rec["cc"] = addressList(msg.Envelope.Cc)
		rec["bcc"] = addressList(msg.Envelope.Bcc)
	}

	body := c.readBody(msg)
	if len(body) == 0 {
		return rec
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(body))
	if err != nil {
		c.logger.WithError(err).Debug("Failed to parse message body, using raw content")
		rec["body"] = string(body)
		return rec
	}

	if env.Text != "" {
		rec["body"] = env.Text
	} else if env.HTML != "" {
		rec["bodyHtml"] = env.HTML
	}

	if len(env.Attachments) > 0 {
		attachments := make([]any, 0, len(env.Attachments))
		for _, part := range env.Attachments {
			attachments = append(attachments, map[string]any{
				"filename":    part.FileName,
				"contentType": part.ContentType,
				"size":        float64(len(part.Content)),
			})
		}
		rec["attachments"] = attachments
	}

	return rec
}

// readBody extracts the RFC822 content from whichever body section the
// server returned it under.
func (c *Client) readBody(msg *imap.Message) []byte {
	if msg.Body == nil {
		return nil
	}

	if literal, ok := msg.Body[nil]; ok {
		return c.readLiteral(literal)
	}
	emptySection := &imap.BodySectionName{}
	if literal, ok := msg.Body[emptySection]; ok {
		return c.readLiteral(literal)
	}
	for _, literal := range msg.Body {
		if body := c.readLiteral(literal); len(body) > 0 {
			return body
		}
	}
	return nil
}

func (c *Client) readLiteral(literal imap.Literal) []byte {
	body, err := io.ReadAll(literal)
	if err != nil {
		c.logger.WithError(err).Error("Error reading message literal")
		return nil
	}
	return body
}

func addressList(addrs []*imap.Address) []any {
	out := make([]any, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, map[string]any{
			"name":  addr.PersonalName,
			"email": addr.Address(),
		})
	}
	return out
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

// StoreFolderID maps a remote IMAP folder name onto one of the store's
// system folder ids. Unrecognized folders file into the inbox.
func StoreFolderID(name string) string {
	switch strings.ToLower(name) {
	case "inbox":
		return string(types.FolderTypeInbox)
	case "sent", "sent items", "sent messages", "[gmail]/sent mail":
		return string(types.FolderTypeSent)
	case "drafts", "[gmail]/drafts":
		return string(types.FolderTypeDrafts)
	case "junk", "spam", "[gmail]/spam":
		return string(types.FolderTypeSpam)
	case "trash", "deleted items", "deleted", "[gmail]/trash":
		return string(types.FolderTypeTrash)
	case "archive", "all mail", "[gmail]/all mail":
		return string(types.FolderTypeArchive)
	default:
		return string(types.FolderTypeInbox)
	}
}
