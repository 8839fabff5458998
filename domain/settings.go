package domain

import (
	"net/mail"
	"strings"
	"time"
)

// Settings keys, one per configuration form.
const (
	SettingsGeneral = "general"
	SettingsEmail   = "email"
)

// GeneralSettings backs the general configuration form.
type GeneralSettings struct {
	SiteName          string    `json:"site_name"`
	SupportEmail      string    `json:"support_email"`
	MaintenanceMode   bool      `json:"maintenance_mode"`
	AllowRegistration bool      `json:"allow_registration"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		SiteName:          "Trackdesk",
		AllowRegistration: true,
	}
}

func (s GeneralSettings) Validate() error {
	if strings.TrimSpace(s.SiteName) == "" {
		return Invalidf("site name cannot be empty")
	}
	if s.SupportEmail != "" {
		if _, err := mail.ParseAddress(s.SupportEmail); err != nil {
			return Invalidf("support email %q is not a valid address", s.SupportEmail)
		}
	}
	return nil
}

// EmailSettings backs the outbound e-mail configuration form.
type EmailSettings struct {
	SMTPHost        string    `json:"smtp_host"`
	SMTPPort        int       `json:"smtp_port"`
	SMTPUsername    string    `json:"smtp_username"`
	FromAddress     string    `json:"from_address"`
	FromName        string    `json:"from_name"`
	NotifyOnNewBug  bool      `json:"notify_on_new_bug"`
	NotifyOnMention bool      `json:"notify_on_mention"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

func DefaultEmailSettings() EmailSettings {
	return EmailSettings{
		SMTPPort:        587,
		NotifyOnNewBug:  true,
		NotifyOnMention: true,
	}
}

func (s EmailSettings) Validate() error {
	if s.SMTPPort < 1 || s.SMTPPort > 65535 {
		return Invalidf("smtp port %d out of range", s.SMTPPort)
	}
	if s.FromAddress != "" {
		if _, err := mail.ParseAddress(s.FromAddress); err != nil {
			return Invalidf("from address %q is not a valid address", s.FromAddress)
		}
	}
	if (s.NotifyOnNewBug || s.NotifyOnMention) && s.SMTPHost == "" && s.FromAddress != "" {
		return Invalidf("smtp host is required to send notifications")
	}
	return nil
}
