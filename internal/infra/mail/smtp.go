package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/config"
)

// SMTPMailer delivers transactional mail over SMTP. Messages are plain
// HTML with the action link embedded; templates stay inline because the
// service only sends two kinds of mail.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	logger *zap.Logger
}

// NewSMTPMailer builds a mailer from the configured SMTP endpoint.
func NewSMTPMailer(cfg config.MailSettings, logger *zap.Logger) (*SMTPMailer, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTimeout(timeout),
	}
	if cfg.Port == 465 {
		opts = append(opts, gomail.WithSSLPort(false))
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// SendPasswordReset mails a reset link valid for the reset-token TTL.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(`<p>Hola,</p>
<p>Hemos recibido una solicitud para restablecer tu contrase&ntilde;a.</p>
<p><a href=%q>Restablecer contrase&ntilde;a</a></p>
<p>El enlace caduca en 30 minutos. Si no has sido t&uacute;, ignora este correo.</p>`, link)

	return m.send(ctx, to, "Restablecer contraseña", body)
}

// SendHomeInvitation mails an invitation link for joining the named home.
func (m *SMTPMailer) SendHomeInvitation(ctx context.Context, to, homeName, link string) error {
	body := fmt.Sprintf(`<p>Hola,</p>
<p>Te han invitado a unirte al hogar <strong>%s</strong>.</p>
<p><a href=%q>Aceptar invitaci&oacute;n</a></p>
<p>El enlace caduca en 24 horas.</p>`, homeName, link)

	return m.send(ctx, to, "Invitación al hogar "+homeName, body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Debug("mail delivered", zap.String("subject", subject))
	return nil
}
