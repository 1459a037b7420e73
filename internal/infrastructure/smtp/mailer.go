package smtp

import (
	"fmt"
	"net/smtp"

	"github.com/bdgram/api/internal/config"
	"github.com/bdgram/api/internal/domain"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
	SendOTP(to, code string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.EmailUser
	}
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     from,
		username: cfg.EmailUser,
		password: cfg.EmailPass,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: BDGRAM <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %v: %w", err, domain.ErrDelivery)
	}
	return nil
}

// SendOTP mails the plaintext recovery code. The code is never logged here.
func (m *mailer) SendOTP(to, code string) error {
	body := fmt.Sprintf(`<h1>Hi, Welcome to BDGRAM!</h1>
<p><b>OTP:</b> Dear User, your OTP code is <b>%s</b>. Please do not share this PIN with anyone.
<br>It is valid for 2 minutes.</p>
<p>Best Regards,<br>BDGRAM</p>`, code)
	return m.SendEmail(to, "Your OTP Code", body)
}
