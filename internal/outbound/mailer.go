package outbound

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sebenza/mailstore/internal/config"
	"github.com/sebenza/mailstore/internal/normalize"
	"github.com/sebenza/mailstore/internal/store"
	"github.com/sebenza/mailstore/pkg/types"
)

// Sender submits a rendered message to an SMTP server. It exists so
// tests can stand in for the network.
type Sender interface {
	Send(msg *Message) error
}

// Mailer sends messages and records them in the store.
type Mailer struct {
	sender  Sender
	account *config.AccountConfig
	store   *store.Store
	logger  *logrus.Logger
}

// NewMailer builds a mailer for the account using its SMTP settings.
func NewMailer(acc *config.AccountConfig, st *store.Store, logger *logrus.Logger) *Mailer {
	return &Mailer{
		sender:  NewSMTPClient(acc, logger),
		account: acc,
		store:   st,
		logger:  logger,
	}
}

// NewMailerWithSender builds a mailer with a custom sender.
func NewMailerWithSender(sender Sender, acc *config.AccountConfig, st *store.Store, logger *logrus.Logger) *Mailer {
	return &Mailer{
		sender:  sender,
		account: acc,
		store:   st,
		logger:  logger,
	}
}

// Send submits the message and records it in the sent folder. The
// stored record is returned.
func (m *Mailer) Send(msg *Message) (types.EmailRecord, error) {
	if len(msg.To) == 0 {
		return types.EmailRecord{}, fmt.Errorf("message has no recipients")
	}

	if err := m.sender.Send(msg); err != nil {
		return types.EmailRecord{}, fmt.Errorf("failed to send email: %w", err)
	}

	rec := m.store.CreateEmail(m.toRecord(msg, string(types.FolderTypeSent)))
	m.logger.WithFields(logrus.Fields{
		"account": m.account.Name,
		"id":      rec.ID,
	}).Info("Sent email")
	return rec, nil
}

// SaveDraft records the message in the drafts folder without sending.
func (m *Mailer) SaveDraft(msg *Message) types.EmailRecord {
	rec := m.toRecord(msg, string(types.FolderTypeDrafts))
	rec.IsDraft = true
	rec.IsSent = false
	return m.store.CreateEmail(rec)
}

func (m *Mailer) toRecord(msg *Message, folder string) types.EmailRecord {
	body := msg.BodyText
	isHTML := false
	if msg.BodyHTML != "" {
		body = msg.BodyHTML
		isHTML = true
	}

	return types.EmailRecord{
		From:    normalize.ParseAddress(m.account.SMTPUsername),
		To:      parseAll(msg.To),
		CC:      parseAll(msg.Cc),
		BCC:     parseAll(msg.Bcc),
		Subject: msg.Subject,
		Body:    body,
		IsHTML:  isHTML,
		Folder:  folder,
		IsRead:  true,
		IsSent:  folder == string(types.FolderTypeSent),
	}
}

func parseAll(addrs []string) []types.EmailAddress {
	out := make([]types.EmailAddress, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, normalize.ParseAddress(addr))
	}
	return out
}
