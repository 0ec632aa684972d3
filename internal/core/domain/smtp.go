package domain

// DefaultSMTPPort is the submission port pre-filled in new configurations.
const DefaultSMTPPort = 587

// SMTPConfig is the read model of an outbound mail account. The password is
// write-only and never decoded from responses.
type SMTPConfig struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	UseTLS    bool   `json:"use_tls"`
	UseSSL    bool   `json:"use_ssl"`
	IsDefault bool   `json:"is_default"`
}

// SMTPConfigInput is the body of the create and update SMTP operations. An
// empty password on update keeps the stored one.
type SMTPConfigInput struct {
	Name      string `json:"name"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	UseTLS    bool   `json:"use_tls"`
	UseSSL    bool   `json:"use_ssl"`
	IsDefault bool   `json:"is_default"`
}

// FindSMTPConfig returns the configuration with the given id, if loaded.
func FindSMTPConfig(configs []SMTPConfig, id int64) (SMTPConfig, bool) {
	for _, c := range configs {
		if c.ID == id {
			return c, true
		}
	}
	return SMTPConfig{}, false
}
