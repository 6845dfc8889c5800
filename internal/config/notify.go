package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	EnvNotifyWebhookURL       = "CLAIMFLOW_NOTIFY_WEBHOOK_URL"
	EnvNotifyTimeout          = "CLAIMFLOW_NOTIFY_TIMEOUT"
	EnvNotifyDefaultRecipient = "CLAIMFLOW_NOTIFY_DEFAULT_RECIPIENT"
	EnvSMTPHost               = "CLAIMFLOW_SMTP_HOST"
	EnvSMTPPort               = "CLAIMFLOW_SMTP_PORT"
	EnvSMTPUser               = "CLAIMFLOW_SMTP_USER"
	EnvSMTPPassword           = "CLAIMFLOW_SMTP_PASSWORD"
	EnvSMTPFrom               = "CLAIMFLOW_SMTP_FROM"
)

// NotifyConfig configures the claim notification channels.
// An empty WebhookURL disables the webhook channel; an empty SMTP host
// leaves email in log-only mode.
type NotifyConfig struct {
	WebhookURL       string     `toml:"webhook_url"`
	Timeout          string     `toml:"timeout"`
	DefaultRecipient string     `toml:"default_recipient"`
	SMTP             SMTPConfig `toml:"smtp"`
}

// SMTPConfig holds outbound mail server settings.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *NotifyConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment overrides, and validation.
func (c *NotifyConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *NotifyConfig) Merge(overlay *NotifyConfig) {
	if overlay.WebhookURL != "" {
		c.WebhookURL = overlay.WebhookURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.DefaultRecipient != "" {
		c.DefaultRecipient = overlay.DefaultRecipient
	}
	if overlay.SMTP.Host != "" {
		c.SMTP.Host = overlay.SMTP.Host
	}
	if overlay.SMTP.Port != 0 {
		c.SMTP.Port = overlay.SMTP.Port
	}
	if overlay.SMTP.User != "" {
		c.SMTP.User = overlay.SMTP.User
	}
	if overlay.SMTP.Password != "" {
		c.SMTP.Password = overlay.SMTP.Password
	}
	if overlay.SMTP.From != "" {
		c.SMTP.From = overlay.SMTP.From
	}
}

func (c *NotifyConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.From == "" {
		c.SMTP.From = "claims@claimflow.local"
	}
}

func (c *NotifyConfig) loadEnv() {
	if v := os.Getenv(EnvNotifyWebhookURL); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv(EnvNotifyTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvNotifyDefaultRecipient); v != "" {
		c.DefaultRecipient = v
	}
	if v := os.Getenv(EnvSMTPHost); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv(EnvSMTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv(EnvSMTPUser); v != "" {
		c.SMTP.User = v
	}
	if v := os.Getenv(EnvSMTPPassword); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv(EnvSMTPFrom); v != "" {
		c.SMTP.From = v
	}
}

func (c *NotifyConfig) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if c.WebhookURL != "" {
		u, err := url.Parse(c.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid webhook_url: %q", c.WebhookURL)
		}
	}
	if c.DefaultRecipient != "" {
		if _, err := mail.ParseAddress(c.DefaultRecipient); err != nil {
			return fmt.Errorf("invalid default_recipient: %w", err)
		}
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid smtp port: %d", c.SMTP.Port)
	}
	return nil
}
