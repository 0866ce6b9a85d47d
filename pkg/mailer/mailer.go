package mailer

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/url"
	"time"

	"github.com/dajohi/goemail"
	"golang.org/x/exp/slog"

	"github.com/ktuacm/clubportal-backend/internal/config"
	"github.com/ktuacm/clubportal-backend/internal/utils"
)

// Mailer delivers one-time verification codes to voters. Delivery is the
// only outbound side effect of the verification protocol; retry on failure
// is left to the caller.
type Mailer interface {
	SendVerificationCode(to, electionTitle, code string, ttl time.Duration) error
}

// SMTPMailer sends mail through an SMTP relay
type SMTPMailer struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
}

// MockMailer logs codes instead of sending them. Used in development and
// whenever SMTP credentials are not configured.
type MockMailer struct{}

// NewMailer creates a Mailer from configuration. Missing SMTP credentials or
// an explicit mock flag fall back to the MockMailer so a development setup
// never needs a mail server.
func NewMailer(cfg *config.Config) (Mailer, error) {
	if cfg.SMTP.MockMailer || cfg.SMTP.Host == "" || cfg.SMTP.User == "" || cfg.SMTP.Password == "" {
		slog.Info("Mailer: mock mode, verification codes will be logged")
		return &MockMailer{}, nil
	}

	h := fmt.Sprintf("smtps://%s:%s@%s", cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.Host)
	u, err := url.Parse(h)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP host: %w", err)
	}

	a, err := mail.ParseAddress(cfg.SMTP.FromAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP from address: %w", err)
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.SMTP.SkipVerify,
	}
	smtp, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to set up SMTP client: %w", err)
	}

	slog.Info("Mailer: SMTP mode", "host", cfg.SMTP.Host, "from", a.Address)
	return &SMTPMailer{
		smtp:        smtp,
		mailName:    a.Name,
		mailAddress: a.Address,
	}, nil
}

// SendVerificationCode sends a one-time voting code to a voter
func (m *SMTPMailer) SendVerificationCode(to, electionTitle, code string, ttl time.Duration) error {
	subject := fmt.Sprintf("%s - Voting Verification Code", electionTitle)
	body := fmt.Sprintf(
		"Your verification code for %q is: %s\n\n"+
			"The code is valid for %d minutes and can be used once.\n"+
			"If you did not request this code, you can ignore this message.\n",
		electionTitle, code, int(ttl.Minutes()))

	msg := goemail.NewMessage(m.mailAddress, subject, body)
	msg.SetName(m.mailName)
	msg.AddTo(to)
	return m.smtp.Send(msg)
}

// SendVerificationCode logs the code instead of delivering it
func (m *MockMailer) SendVerificationCode(to, electionTitle, code string, ttl time.Duration) error {
	slog.Info("MockMailer: verification code issued", "to", utils.MaskEmail(to), "election", electionTitle, "code", code, "ttlMinutes", int(ttl.Minutes()))
	return nil
}
