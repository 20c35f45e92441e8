// Package outbound sends composed messages over SMTP and records them
// in the store's sent folder.
package outbound

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sebenza/mailstore/internal/config"
)

// SMTPClient submits messages to one account's SMTP server.
type SMTPClient struct {
	config *config.AccountConfig
	logger *logrus.Logger
}

// Message represents an email to be sent.
type Message struct {
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	BodyText string
	BodyHTML string
}

// NewSMTPClient creates an SMTP client for the account.
func NewSMTPClient(cfg *config.AccountConfig, logger *logrus.Logger) *SMTPClient {
	return &SMTPClient{
		config: cfg,
		logger: logger,
	}
}

// Send submits the message. Port 465 uses implicit TLS, anything else
// upgrades with STARTTLS.
func (c *SMTPClient) Send(msg *Message) error {
	emailBytes := c.buildMessage(msg)
	addr := fmt.Sprintf("%s:%d", c.config.SMTPHost, c.config.SMTPPort)

	var auth smtp.Auth
	if c.config.SMTPPassword != "" {
		auth = smtp.PlainAuth("", c.config.SMTPUsername, c.config.SMTPPassword, c.config.SMTPHost)
	}

	client, err := c.dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	return c.submit(client, auth, msg, emailBytes)
}

// dial connects and negotiates TLS according to the port.
func (c *SMTPClient) dial(addr string) (*smtp.Client, error) {
	tlsConfig := &tls.Config{ServerName: c.config.SMTPHost}

	if c.config.SMTPPort == 465 {
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		client, err := smtp.NewClient(conn, c.config.SMTPHost)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create SMTP client: %w", err)
		}
		return client, nil
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start TLS: %w", err)
	}
	return client, nil
}

// submit runs the mail transaction on an established client.
func (c *SMTPClient) submit(client *smtp.Client, auth smtp.Auth, msg *Message, emailBytes []byte) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := client.Mail(c.config.SMTPUsername); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	recipients := append(append(append([]string{}, msg.To...), msg.Cc...), msg.Bcc...)
	for _, to := range recipients {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send data command: %w", err)
	}
	if _, err := w.Write(emailBytes); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// buildMessage renders the message in wire format.
func (c *SMTPClient) buildMessage(msg *Message) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("From: %s\r\n", c.config.SMTPUsername))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	if len(msg.Cc) > 0 {
		buf.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(msg.Cc, ", ")))
	}
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))

	if msg.BodyHTML != "" {
		buf.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		buf.WriteString(msg.BodyHTML)
	} else {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(msg.BodyText)
	}

	return buf.Bytes()
}
