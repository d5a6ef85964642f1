package utils

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"net/url"
	"os"
	"time"
)

type MailConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	Sender   string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		Sender:   os.Getenv("SMTP_SENDER"),
	}
}

func SendEmail(config MailConfig, recipient, subject, message string) error {
	smtpAddr := config.SMTPHost + ":" + config.SMTPPort

	client, err := smtp.Dial(smtpAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: config.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", config.Username, config.Password, config.SMTPHost)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err = client.Mail(config.Sender); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		config.Sender, recipient, subject, message)
	if _, err = w.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close message body: %w", err)
	}

	return client.Quit()
}

// DeliverInitialCredential emails a newly created account its generated
// first password. Without SMTP configured the obligation is logged so
// operators can deliver it another way.
func DeliverInitialCredential(recipient, username, password string) error {
	config := LoadMailConfig()
	if config.SMTPHost == "" {
		log.Printf("SMTP not configured; initial credential for %s pending delivery", recipient)
		return nil
	}
	message := fmt.Sprintf(
		"Your gate pass account has been created.\r\n\r\nUsername: %s\r\nPassword: %s\r\n\r\nPlease change this password after your first login.",
		username, password)
	return SendEmail(config, recipient, "Gate pass account created", message)
}

// DeliverParentCode hands a verification code to the configured SMS gateway.
// Without a gateway configured the obligation is recorded in the log so
// operators can follow up.
func DeliverParentCode(parentMobile, code string) error {
	gateway := os.Getenv("SMS_GATEWAY_URL")
	if gateway == "" {
		log.Printf("SMS gateway not configured; verification code for %s pending delivery", parentMobile)
		return nil
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.PostForm(gateway, url.Values{
		"to":      {parentMobile},
		"message": {"Gate pass verification code: " + code},
	})
	if err != nil {
		return fmt.Errorf("failed to reach SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}
	return nil
}
